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
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	internallog "github.com/zenoh-ros2/sdk/internal/log"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/qos"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/schema"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/session"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/ztransport"
)

const addTwoIntsDef = "int64 a\nint64 b\n---\nint64 sum\n"

func newTestSession(t *testing.T, zid string) *session.Session {
	t.Helper()
	transport := newFakeTransport(zid)
	dial := func(string, int) (ztransport.Session, error) { return transport, nil }

	s, err := session.Open(dial, internallog.NewLogrus(logrus.New()), nil, "127.0.0.1", 8447+len(zid))
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	svc, err := schema.ParseService("example_interfaces/srv/AddTwoInts", addTwoIntsDef)
	if err != nil {
		t.Fatalf("ParseService: %v", err)
	}
	s.Types.PutService(svc)
	// The service type hash references ServiceEventInfo and its Time
	// dependency, so both must be registered for NewServer/NewClient.
	for typeName, def := range map[string]string{
		"service_msgs/msg/ServiceEventInfo": "uint8 event_type\nbuiltin_interfaces/msg/Time stamp\n",
		"builtin_interfaces/msg/Time":       "int32 sec\nuint32 nanosec\n",
	} {
		m, err := schema.Parse(typeName, def)
		if err != nil {
			t.Fatalf("Parse(%q): %v", typeName, err)
		}
		s.Types.PutMessage(m)
	}
	return s
}

func addTwoIntsRequest(a, b int64) schema.Value {
	return schema.Struct(
		schema.FieldValue{Name: "a", Value: schema.Int64(a)},
		schema.FieldValue{Name: "b", Value: schema.Int64(b)},
	)
}

func TestCallbackModeRoundTrip(t *testing.T) {
	sess := newTestSession(t, "callback-mode")

	server, err := NewServer(sess, ServerOptions{
		ServiceName: "/add_two_ints",
		TypeName:    "example_interfaces/srv/AddTwoInts",
		NodeName:    "adder",
		Namespace:   "/",
		QoS:         qos.Default,
		Mode:        ModeCallback,
		Callback: func(req schema.Value) (schema.Value, error) {
			a, _ := req.Field("a")
			b, _ := req.Field("b")
			sum := a.Scalar.(int64) + b.Scalar.(int64)
			return schema.Struct(schema.FieldValue{Name: "sum", Value: schema.Int64(sum)}), nil
		},
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer server.Close()

	client, err := NewClient(sess, ClientOptions{
		ServiceName: "/add_two_ints",
		TypeName:    "example_interfaces/srv/AddTwoInts",
		NodeName:    "caller",
		Namespace:   "/",
		QoS:         qos.Default,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if client.KeyExpr() != server.KeyExpr() {
		t.Fatalf("client keyexpr %q != server keyexpr %q", client.KeyExpr(), server.KeyExpr())
	}

	resp, err := client.Call(context.Background(), addTwoIntsRequest(7, 8), time.Second)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	sum, ok := resp.Field("sum")
	if !ok || sum.Scalar.(int64) != 15 {
		t.Fatalf("response = %+v, want sum=15", resp)
	}
}

func TestQueueModeTakeAndSendResponse(t *testing.T) {
	sess := newTestSession(t, "queue-mode")

	server, err := NewServer(sess, ServerOptions{
		ServiceName: "/add_two_ints",
		TypeName:    "example_interfaces/srv/AddTwoInts",
		NodeName:    "adder",
		Namespace:   "/",
		QoS:         qos.Default,
		Mode:        ModeQueue,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer server.Close()

	var received schema.Value
	replied := make(chan struct{})
	go func() {
		key, req, err := server.TakeRequest(time.Second)
		if err != nil {
			t.Errorf("TakeRequest: %v", err)
			return
		}
		received = req
		a, _ := req.Field("a")
		b, _ := req.Field("b")
		sum := a.Scalar.(int64) + b.Scalar.(int64)
		resp := schema.Struct(schema.FieldValue{Name: "sum", Value: schema.Int64(sum)})
		if err := server.SendResponse(key, resp); err != nil {
			t.Errorf("SendResponse: %v", err)
		}
		close(replied)
	}()

	client, err := NewClient(sess, ClientOptions{
		ServiceName: "/add_two_ints",
		TypeName:    "example_interfaces/srv/AddTwoInts",
		NodeName:    "caller",
		Namespace:   "/",
		QoS:         qos.Default,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	resp, err := client.Call(context.Background(), addTwoIntsRequest(7, 8), time.Second)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}

	select {
	case <-replied:
	case <-time.After(time.Second):
		t.Fatal("server goroutine never finished")
	}

	a, _ := received.Field("a")
	if a.Scalar.(int64) != 7 {
		t.Fatalf("server saw a=%v, want 7", a.Scalar)
	}
	sum, ok := resp.Field("sum")
	if !ok || sum.Scalar.(int64) != 15 {
		t.Fatalf("response = %+v, want sum=15", resp)
	}
}

func TestClientCallTimesOutWithNoServer(t *testing.T) {
	sess := newTestSession(t, "no-server")

	client, err := NewClient(sess, ClientOptions{
		ServiceName: "/add_two_ints",
		TypeName:    "example_interfaces/srv/AddTwoInts",
		NodeName:    "caller",
		Namespace:   "/",
		QoS:         qos.Default,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	_, err = client.Call(context.Background(), addTwoIntsRequest(1, 2), 10*time.Millisecond)
	if err == nil {
		t.Fatal("expected a timeout error with no server declared")
	}
}

func TestCallAsyncInvokesCallbackOnTimeout(t *testing.T) {
	sess := newTestSession(t, "async-timeout")

	client, err := NewClient(sess, ClientOptions{
		ServiceName: "/add_two_ints",
		TypeName:    "example_interfaces/srv/AddTwoInts",
		NodeName:    "caller",
		Namespace:   "/",
		QoS:         qos.Default,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	done := make(chan bool, 1)
	client.CallAsync(context.Background(), addTwoIntsRequest(1, 2), 10*time.Millisecond, func(resp schema.Value, ok bool) {
		done <- ok
	})

	select {
	case ok := <-done:
		if ok {
			t.Fatal("callback reported ok=true with no server declared")
		}
	case <-time.After(time.Second):
		t.Fatal("callback never invoked")
	}
}
