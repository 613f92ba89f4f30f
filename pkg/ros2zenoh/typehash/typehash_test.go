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

package typehash

import (
	"strings"
	"testing"

	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/schema"
)

func mustParse(t *testing.T, typeName, def string) schema.MessageSchema {
	t.Helper()
	m, err := schema.Parse(typeName, def)
	if err != nil {
		t.Fatalf("Parse(%q): %v", typeName, err)
	}
	return m
}

func TestHashFormatsAsRIHS01WithSixtyFourHexChars(t *testing.T) {
	store := schema.NewTypeStore()
	store.PutMessage(mustParse(t, "std_msgs/msg/String", "string data\n"))

	got, err := Hash(store, "std_msgs/msg/String")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(got, Prefix) {
		t.Fatalf("Hash() = %q, missing prefix %q", got, Prefix)
	}
	if len(got) != len(Prefix)+64 {
		t.Fatalf("Hash() = %q, want %d chars after prefix, got %d", got, 64, len(got)-len(Prefix))
	}
}

func TestHashMatchesKnownStringVector(t *testing.T) {
	store := schema.NewTypeStore()
	store.PutMessage(mustParse(t, "std_msgs/msg/String", "string data\n"))

	got, err := Hash(store, "std_msgs/msg/String")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	want := "RIHS01_df668c740482bbd48fb39d76a70dfd4bd59db1288021743503259e948f6b1a18"
	if got != want {
		t.Fatalf("Hash(std_msgs/msg/String) = %q, want %q", got, want)
	}
}

func TestHashMatchesKnownTwistVector(t *testing.T) {
	store := schema.NewTypeStore()
	store.PutMessage(mustParse(t, "geometry_msgs/msg/Vector3", "float64 x\nfloat64 y\nfloat64 z\n"))
	store.PutMessage(mustParse(t, "geometry_msgs/msg/Twist", "Vector3 linear\nVector3 angular\n"))

	got, err := Hash(store, "geometry_msgs/msg/Twist")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	want := "RIHS01_9c45bf16fe0983d80e3cfe750d6835843d265a9a6c46bd2e609fcddde6fb8d2a"
	if got != want {
		t.Fatalf("Hash(geometry_msgs/msg/Twist) = %q, want %q", got, want)
	}
}

func TestHashIsDeterministic(t *testing.T) {
	store := schema.NewTypeStore()
	store.PutMessage(mustParse(t, "std_msgs/msg/String", "string data\n"))

	a, err := Hash(store, "std_msgs/msg/String")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash(store, "std_msgs/msg/String")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != b {
		t.Errorf("Hash() is non-deterministic: %q != %q", a, b)
	}
}

func TestHashDiffersOnFieldRename(t *testing.T) {
	store := schema.NewTypeStore()
	store.PutMessage(mustParse(t, "pkg/msg/A", "int32 x\n"))
	store.PutMessage(mustParse(t, "pkg/msg/B", "int32 y\n"))

	a, err := Hash(store, "pkg/msg/A")
	if err != nil {
		t.Fatalf("Hash A: %v", err)
	}
	b, err := Hash(store, "pkg/msg/B")
	if err != nil {
		t.Fatalf("Hash B: %v", err)
	}
	if a == b {
		t.Errorf("Hash() collided for differently-named fields: %q", a)
	}
}

func TestHashIncludesNestedDependency(t *testing.T) {
	store := schema.NewTypeStore()
	store.PutMessage(mustParse(t, "geometry_msgs/msg/Vector3", "float64 x\nfloat64 y\nfloat64 z\n"))
	store.PutMessage(mustParse(t, "geometry_msgs/msg/Twist", "Vector3 linear\nVector3 angular\n"))

	twistHash, err := Hash(store, "geometry_msgs/msg/Twist")
	if err != nil {
		t.Fatalf("Hash Twist: %v", err)
	}

	// Changing the dependency's shape must change the dependent's hash:
	// RIHS01 folds every transitive dependency's own description into
	// the record it hashes.
	store.PutMessage(mustParse(t, "geometry_msgs/msg/Vector3", "float64 x\nfloat64 y\nfloat64 z\nfloat64 w\n"))
	twistHash2, err := Hash(store, "geometry_msgs/msg/Twist")
	if err != nil {
		t.Fatalf("Hash Twist (2): %v", err)
	}
	if twistHash == twistHash2 {
		t.Errorf("Hash(Twist) did not change after Vector3's shape changed")
	}
}

func TestServiceHashDiffersFromRequestHash(t *testing.T) {
	store := schema.NewTypeStore()
	store.PutMessage(mustParse(t, "service_msgs/msg/ServiceEventInfo", "uint8 event_type\nbuiltin_interfaces/msg/Time stamp\n"))
	store.PutMessage(mustParse(t, "builtin_interfaces/msg/Time", "int32 sec\nuint32 nanosec\n"))

	svc, err := schema.ParseService("example_interfaces/srv/AddTwoInts", "int64 a\nint64 b\n---\nint64 sum\n")
	if err != nil {
		t.Fatalf("ParseService: %v", err)
	}
	store.PutService(svc)

	svcHash, err := ServiceHash(store, svc)
	if err != nil {
		t.Fatalf("ServiceHash: %v", err)
	}
	reqHash, err := Hash(store, svc.RequestTypeName())
	if err != nil {
		t.Fatalf("Hash request: %v", err)
	}
	if svcHash == reqHash {
		t.Errorf("ServiceHash() collided with the request message's own hash")
	}
}
