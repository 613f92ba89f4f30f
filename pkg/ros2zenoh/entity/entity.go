// Copyright Project Contour Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package entity holds the immutable value objects that describe a
// node and its endpoints: the session, node, and entity identifiers,
// and the GID carried inside every attachment.
package entity

import "encoding/hex"

// SessionID is the Zenoh session's ZID, an opaque string assigned by
// the transport on open.
type SessionID string

// NodeID is a monotonic integer allocated from the session, scoped to
// the process.
type NodeID uint64

// EntityID is a monotonic integer allocated from the session, unique
// per endpoint.
type EntityID uint64

// GIDSize is the fixed length of a GID in bytes.
const GIDSize = 16

// GID is a 16-byte globally-unique endpoint identifier carried inside
// the attachment of every sample, query, and reply.
type GID [GIDSize]byte

func (g GID) String() string {
	return hex.EncodeToString(g[:])
}

// Node is the immutable description of a ROS2 node visible to
// discovery.
type Node struct {
	DomainID  int
	SessionID SessionID
	NodeID    NodeID
	Namespace string
	Name      string
}

// Role identifies what kind of endpoint an Endpoint value describes.
type Role string

const (
	RolePublisher     Role = "publisher"
	RoleSubscriber    Role = "subscriber"
	RoleServiceServer Role = "service_server"
	RoleServiceClient Role = "service_client"
)

// Endpoint is the immutable description of a publisher, subscriber,
// service server, or service client: everything needed to build its
// data key expression and liveliness token.
type Endpoint struct {
	Node     Node
	EntityID EntityID
	GID      GID
	Role     Role
	Name     string // topic or service name, e.g. "/chatter"
	TypeName string // fully-qualified ROS2 type name
	DDSType  string
	TypeHash string
}
