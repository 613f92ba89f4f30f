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

package pubsub

import (
	"context"
	"time"

	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/ztransport"
)

// fakeTransport is an in-process ztransport.Session that wires a
// Publisher directly to every Subscriber declared on the same key
// expression, and a Liveliness that tracks declared tokens.
type fakeTransport struct {
	zid    string
	subs   map[string][]func(ztransport.Sample)
	tokens map[string]bool
}

func newFakeTransport(zid string) *fakeTransport {
	return &fakeTransport{zid: zid, subs: make(map[string][]func(ztransport.Sample)), tokens: make(map[string]bool)}
}

func (f *fakeTransport) ZID() string { return f.zid }

func (f *fakeTransport) DeclarePublisher(keyExpr string) (ztransport.Publisher, error) {
	return &fakePublisher{transport: f, keyExpr: keyExpr}, nil
}

func (f *fakeTransport) DeclareSubscriber(keyExpr string, handler func(ztransport.Sample)) (ztransport.Subscriber, error) {
	f.subs[keyExpr] = append(f.subs[keyExpr], handler)
	return &fakeSubscriber{}, nil
}

func (f *fakeTransport) DeclareQueryable(string, func(ztransport.Query)) (ztransport.Queryable, error) {
	return &fakeQueryable{}, nil
}

func (f *fakeTransport) Liveliness() ztransport.Liveliness { return &fakeLiveliness{transport: f} }

func (f *fakeTransport) Get(context.Context, string, time.Duration, func(ztransport.QueryReply)) error {
	return nil
}

func (f *fakeTransport) Query(context.Context, string, []byte, []byte, time.Duration, func(ztransport.QueryReply)) error {
	return nil
}

func (f *fakeTransport) Close() error { return nil }

type fakePublisher struct {
	transport *fakeTransport
	keyExpr   string
}

func (p *fakePublisher) Put(payload, attachment []byte) error {
	for _, h := range p.transport.subs[p.keyExpr] {
		h(ztransport.Sample{KeyExpr: p.keyExpr, Payload: payload, Attachment: attachment})
	}
	return nil
}

func (p *fakePublisher) Undeclare() error { return nil }

type fakeSubscriber struct{}

func (s *fakeSubscriber) Undeclare() error { return nil }

type fakeQueryable struct{}

func (q *fakeQueryable) Undeclare() error { return nil }

type fakeLiveliness struct {
	transport *fakeTransport
}

func (l *fakeLiveliness) DeclareToken(keyExpr string) (ztransport.Token, error) {
	l.transport.tokens[keyExpr] = true
	return &fakeToken{transport: l.transport, keyExpr: keyExpr}, nil
}

func (l *fakeLiveliness) Get(context.Context, string, time.Duration, func(keyExpr string)) error {
	return nil
}

type fakeToken struct {
	transport *fakeTransport
	keyExpr   string
}

func (t *fakeToken) Undeclare() error {
	delete(t.transport.tokens, t.keyExpr)
	return nil
}
