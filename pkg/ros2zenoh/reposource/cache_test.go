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

package reposource

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocateFindsFileUnderMessagesDir(t *testing.T) {
	dir := t.TempDir()
	pkgDir := filepath.Join(dir, "std_msgs", "msg")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "String.msg"), []byte("string data\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	path, ok := Locate(dir, "std_msgs/msg/String")
	if !ok {
		t.Fatal("Locate did not find String.msg")
	}
	if filepath.Base(path) != "String.msg" {
		t.Errorf("Locate path = %q", path)
	}
}

func TestLocateMissReturnsFalse(t *testing.T) {
	if _, ok := Locate(t.TempDir(), "std_msgs/msg/String"); ok {
		t.Error("Locate reported a hit for an empty directory")
	}
}

func TestRepositoryForPackage(t *testing.T) {
	name, ok := RepositoryForPackage("geometry_msgs")
	if !ok || name != "common_interfaces" {
		t.Errorf("RepositoryForPackage(geometry_msgs) = (%q, %v)", name, ok)
	}
	if _, ok := RepositoryForPackage("nonexistent_pkg"); ok {
		t.Error("RepositoryForPackage reported a hit for an unknown package")
	}
}

func TestMessageFilePathUsesKindExtension(t *testing.T) {
	repo := Repositories["example_interfaces"]
	path, err := MessageFilePath("/cache/example_interfaces", repo, "example_interfaces/srv/AddTwoInts")
	if err != nil {
		t.Fatalf("MessageFilePath: %v", err)
	}
	want := filepath.Join("/cache/example_interfaces", "example_interfaces", "srv", "AddTwoInts.srv")
	if path != want {
		t.Errorf("MessageFilePath() = %q, want %q", path, want)
	}
}
