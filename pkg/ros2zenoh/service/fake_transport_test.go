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

package service

import (
	"context"
	"sync"
	"time"

	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/ztransport"
)

// fakeTransport is an in-process ztransport.Session that wires
// Query calls directly into the Queryable handler declared on the
// same key expression, synchronously.
type fakeTransport struct {
	zid        string
	queryables map[string]func(ztransport.Query)
	tokens     map[string]bool
}

func newFakeTransport(zid string) *fakeTransport {
	return &fakeTransport{zid: zid, queryables: make(map[string]func(ztransport.Query)), tokens: make(map[string]bool)}
}

func (f *fakeTransport) ZID() string { return f.zid }

func (f *fakeTransport) DeclarePublisher(string) (ztransport.Publisher, error) {
	return &fakePublisher{}, nil
}

func (f *fakeTransport) DeclareSubscriber(string, func(ztransport.Sample)) (ztransport.Subscriber, error) {
	return &fakeSubscriber{}, nil
}

func (f *fakeTransport) DeclareQueryable(keyExpr string, handler func(ztransport.Query)) (ztransport.Queryable, error) {
	f.queryables[keyExpr] = handler
	return &fakeQueryable{transport: f, keyExpr: keyExpr}, nil
}

func (f *fakeTransport) Liveliness() ztransport.Liveliness { return &fakeLiveliness{transport: f} }

func (f *fakeTransport) Get(context.Context, string, time.Duration, func(ztransport.QueryReply)) error {
	return nil
}

func (f *fakeTransport) Query(ctx context.Context, selector string, payload, attachment []byte, timeout time.Duration, onReply func(ztransport.QueryReply)) error {
	handler, ok := f.queryables[selector]
	if !ok {
		return nil
	}

	done := make(chan struct{})
	var once sync.Once
	query := ztransport.Query{
		KeyExpr:    selector,
		Payload:    payload,
		Attachment: attachment,
		Reply: func(p, a []byte) error {
			onReply(ztransport.QueryReply{KeyExpr: selector, Payload: p, Attachment: a})
			once.Do(func() { close(done) })
			return nil
		},
	}
	go handler(query)

	select {
	case <-done:
	case <-time.After(timeout):
	}
	return nil
}

func (f *fakeTransport) Close() error { return nil }

type fakePublisher struct{}

func (p *fakePublisher) Put([]byte, []byte) error { return nil }
func (p *fakePublisher) Undeclare() error         { return nil }

type fakeSubscriber struct{}

func (s *fakeSubscriber) Undeclare() error { return nil }

type fakeQueryable struct {
	transport *fakeTransport
	keyExpr   string
}

func (q *fakeQueryable) Undeclare() error {
	delete(q.transport.queryables, q.keyExpr)
	return nil
}

type fakeLiveliness struct {
	transport *fakeTransport
}

func (l *fakeLiveliness) DeclareToken(keyExpr string) (ztransport.Token, error) {
	l.transport.tokens[keyExpr] = true
	return &fakeToken{transport: l.transport, keyExpr: keyExpr}, nil
}

func (l *fakeLiveliness) Get(context.Context, string, time.Duration, func(string)) error {
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
