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

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	internallog "github.com/zenoh-ros2/sdk/internal/log"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/ztransport"
)

type fakeSession struct{ zid string }

func (f *fakeSession) ZID() string { return f.zid }

func (f *fakeSession) DeclarePublisher(string) (ztransport.Publisher, error) {
	return nil, nil
}

func (f *fakeSession) DeclareSubscriber(string, func(ztransport.Sample)) (ztransport.Subscriber, error) {
	return nil, nil
}

func (f *fakeSession) DeclareQueryable(string, func(ztransport.Query)) (ztransport.Queryable, error) {
	return nil, nil
}

func (f *fakeSession) Liveliness() ztransport.Liveliness { return nil }

func (f *fakeSession) Get(context.Context, string, time.Duration, func(ztransport.QueryReply)) error {
	return nil
}

func (f *fakeSession) Query(context.Context, string, []byte, []byte, time.Duration, func(ztransport.QueryReply)) error {
	return nil
}

func (f *fakeSession) Close() error { return nil }

func testLogger() internallog.Logger {
	return internallog.NewLogrus(logrus.New())
}

func TestOpenReturnsSameInstanceForSameEndpoint(t *testing.T) {
	reset()
	dial := func(ip string, port int) (ztransport.Session, error) {
		return &fakeSession{zid: "zid-a"}, nil
	}

	a, err := Open(dial, testLogger(), nil, "127.0.0.1", 7447)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, err := Open(dial, testLogger(), nil, "127.0.0.1", 7447)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a != b {
		t.Error("Open returned distinct instances for the same (ip, port)")
	}
}

func TestOpenIsSafeUnderConcurrentCallers(t *testing.T) {
	reset()
	dial := func(ip string, port int) (ztransport.Session, error) {
		return &fakeSession{zid: "zid-b"}, nil
	}

	var wg sync.WaitGroup
	results := make([]*Session, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := Open(dial, testLogger(), nil, "127.0.0.1", 7448)
			if err != nil {
				t.Errorf("Open: %v", err)
				return
			}
			results[i] = s
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatalf("concurrent Open calls returned different instances")
		}
	}
}

func TestEntityIDsAreUniqueUnderConcurrency(t *testing.T) {
	reset()
	dial := func(ip string, port int) (ztransport.Session, error) {
		return &fakeSession{zid: "zid-c"}, nil
	}
	s, err := Open(dial, testLogger(), nil, "127.0.0.1", 7449)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	const n = 100
	ids := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- uint64(s.NextEntityID())
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate entity ID %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d unique IDs, want %d", len(seen), n)
	}
}

func TestNewGIDProducesDistinctValues(t *testing.T) {
	a := NewGID()
	b := NewGID()
	if a == b {
		t.Error("NewGID produced two identical GIDs")
	}
}
