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

// Package session manages the process-wide Zenoh session singleton:
// one session per (router IP, router port) pair, shared node/entity
// ID allocators, GID generation, and the shared message type store.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/entity"
	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
	"github.com/zenoh-ros2/sdk/internal/log"
	"github.com/zenoh-ros2/sdk/internal/metrics"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/schema"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/ztransport"
)

// Dialer opens a transport session to a Zenoh router. Production
// callers supply one backed by a real Zenoh client; tests supply a
// fake.
type Dialer func(routerIP string, routerPort int) (ztransport.Session, error)

// Session is one shared connection to a Zenoh router plus the
// process-local allocators and type registry every endpoint built on
// top of it shares.
type Session struct {
	Transport ztransport.Session
	Log       log.Logger
	Metrics   *metrics.Metrics
	Types     *schema.TypeStore

	id entity.SessionID

	mu           sync.Mutex
	nextNodeID   entity.NodeID
	nextEntityID entity.EntityID
}

var (
	registryMu sync.Mutex
	registry   = map[string]*Session{}
)

// Open returns the shared Session for (routerIP, routerPort), dialing
// a new transport connection on first use. Concurrent callers
// requesting the same endpoint receive the same instance.
func Open(dial Dialer, logger log.Logger, reg *metrics.Metrics, routerIP string, routerPort int) (*Session, error) {
	key := fmt.Sprintf("%s:%d", routerIP, routerPort)

	registryMu.Lock()
	defer registryMu.Unlock()

	if s, ok := registry[key]; ok {
		return s, nil
	}

	transport, err := dial(routerIP, routerPort)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.TransportError, err, "opening session to %s", key)
	}

	s := &Session{
		Transport: transport,
		Log:       logger,
		Metrics:   reg,
		Types:     schema.NewTypeStore(),
		id:        entity.SessionID(transport.ZID()),
	}
	registry[key] = s
	return s, nil
}

// ID returns the Zenoh-assigned session identifier.
func (s *Session) ID() entity.SessionID {
	return s.id
}

// NextNodeID returns a strictly-monotone, contention-safe node ID.
func (s *Session) NextNodeID() entity.NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextNodeID
	s.nextNodeID++
	return id
}

// NextEntityID returns a strictly-monotone, contention-safe entity ID.
func (s *Session) NextEntityID() entity.EntityID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextEntityID
	s.nextEntityID++
	return id
}

// NewGID generates a random 16-byte GID.
func NewGID() entity.GID {
	var g entity.GID
	u := uuid.New()
	copy(g[:], u[:])
	return g
}

// reset is a test-only escape hatch that clears the process-wide
// session registry.
func reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = map[string]*Session{}
}
