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
	"strings"

	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
)

// CacheEnvVar is the environment variable that overrides the default
// cache directory.
const CacheEnvVar = "ZENOH_ROS2_SDK_CACHE"

// DefaultCacheDir is used when CacheEnvVar is unset.
const DefaultCacheDir = ".cache/zenoh_ros2_sdk"

// CacheDir returns the configured cache root, expanding "~" and
// falling back to $HOME/DefaultCacheDir.
func CacheDir() (string, error) {
	if dir := os.Getenv(CacheEnvVar); dir != "" {
		return expandHome(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ierrors.Wrap(ierrors.TransportError, err, "resolving home directory for schema cache")
	}
	return filepath.Join(home, DefaultCacheDir), nil
}

func expandHome(dir string) (string, error) {
	if !strings.HasPrefix(dir, "~") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ierrors.Wrap(ierrors.TransportError, err, "expanding %q", dir)
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
}

// MessageFilePath returns the path a .msg or .srv file would have
// inside a cloned repository, given the repository's layout
// convention. The file extension follows typeName's middle segment
// ("msg" or "srv").
func MessageFilePath(repoPath string, repo Repository, typeName string) (string, error) {
	parts := strings.Split(typeName, "/")
	if len(parts) != 3 {
		return "", ierrors.New(ierrors.SchemaParseError, "malformed type name %q", typeName)
	}
	pkg, kind, name := parts[0], parts[1], parts[2]
	filename := name + "." + kind

	if repo.MsgPath != "" {
		return filepath.Join(repoPath, repo.MsgPath, pkg, kind, filename), nil
	}
	return filepath.Join(repoPath, pkg, kind, filename), nil
}

// Locate looks for typeName's definition under a local messages
// directory first, returning its path and true if found.
func Locate(messagesDir, typeName string) (string, bool) {
	parts := strings.Split(typeName, "/")
	if len(parts) != 3 {
		return "", false
	}
	path := filepath.Join(messagesDir, parts[0], parts[1], parts[2]+"."+parts[1])
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
