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

// Package ztransport declares the Zenoh collaborator contract this
// SDK is built against: a session that can declare publishers,
// subscribers, queryables, liveliness tokens, and issue queries. No
// implementation lives in this module; callers supply one backed by
// whatever Zenoh client is available to their process.
package ztransport

import (
	"context"
	"time"
)

// Session is one open connection to a Zenoh router.
type Session interface {
	// ZID returns this session's Zenoh-assigned identifier, stable for
	// the life of the session.
	ZID() string

	DeclarePublisher(keyExpr string) (Publisher, error)
	DeclareSubscriber(keyExpr string, handler func(Sample)) (Subscriber, error)
	DeclareQueryable(keyExpr string, handler func(Query)) (Queryable, error)
	Liveliness() Liveliness

	// Get issues a query against selector and blocks until timeout or
	// every reply has been delivered to onReply.
	Get(ctx context.Context, selector string, timeout time.Duration, onReply func(QueryReply)) error

	// Query issues a query carrying a payload and attachment (a
	// service call) against selector, blocking until timeout or every
	// reply has been delivered to onReply.
	Query(ctx context.Context, selector string, payload, attachment []byte, timeout time.Duration, onReply func(QueryReply)) error

	Close() error
}

// Sample is one received publication.
type Sample struct {
	KeyExpr    string
	Payload    []byte
	Attachment []byte
}

// Publisher puts payloads under one key expression.
type Publisher interface {
	Put(payload, attachment []byte) error
	Undeclare() error
}

// Subscriber receives Samples matching a key expression.
type Subscriber interface {
	Undeclare() error
}

// Query is one incoming request delivered to a Queryable's handler.
// The handler calls Reply exactly once (or not at all, to send no
// response) to answer the requester.
type Query struct {
	KeyExpr    string
	Payload    []byte
	Attachment []byte
	Reply      func(payload, attachment []byte) error
}

// QueryReply is one reply received from a Session.Get or Session.Query
// call.
type QueryReply struct {
	KeyExpr    string
	Payload    []byte
	Attachment []byte
}

// Queryable answers Query requests on a key expression, such as a
// service server or an AdvancedPublisher history cache.
type Queryable interface {
	Undeclare() error
}

// Liveliness declares and queries liveliness tokens.
type Liveliness interface {
	DeclareToken(keyExpr string) (Token, error)
	// Get queries which tokens currently match selector, invoking
	// onMatch with each matching key expression.
	Get(ctx context.Context, selector string, timeout time.Duration, onMatch func(keyExpr string)) error
}

// Token is a single declared liveliness token. Undeclaring it
// retracts the corresponding entity from peer discovery.
type Token interface {
	Undeclare() error
}
