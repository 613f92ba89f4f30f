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

// Package reposource locates the .msg/.srv file for a fully-qualified
// ROS2 type: first in a local messages directory, then by cloning the
// owning interface package's upstream git repository into a local
// cache.
package reposource

// Repository describes one upstream git repository that carries one
// or more ROS2 interface packages.
type Repository struct {
	URL       string
	Commit    string // pinned ref; empty means track the default branch
	CachePath string // subdirectory under the cache root this repo clones into
	MsgPath   string // path prefix from the repo root to where "<pkg>/msg/<Name>.msg" lives; empty when the package directories sit directly under the repo root
}

// Repositories is the set of known interface-package source
// repositories, keyed by repository name.
var Repositories = map[string]Repository{
	"common_interfaces": {
		URL:       "https://github.com/ros2/common_interfaces.git",
		Commit:    "humble",
		CachePath: "common_interfaces",
	},
	"example_interfaces": {
		URL:       "https://github.com/ros2/example_interfaces.git",
		Commit:    "humble",
		CachePath: "example_interfaces",
		MsgPath:   "",
	},
	"rcl_interfaces": {
		URL:       "https://github.com/ros2/rcl_interfaces.git",
		Commit:    "humble",
		CachePath: "rcl_interfaces",
	},
}

// PackageToRepository maps a ROS2 interface package name to the name
// of the Repository that hosts it.
var PackageToRepository = map[string]string{
	"std_msgs":                    "common_interfaces",
	"geometry_msgs":               "common_interfaces",
	"sensor_msgs":                 "common_interfaces",
	"nav_msgs":                    "common_interfaces",
	"actionlib_msgs":              "common_interfaces",
	"diagnostic_msgs":             "common_interfaces",
	"shape_msgs":                  "common_interfaces",
	"stereo_msgs":                 "common_interfaces",
	"trajectory_msgs":             "common_interfaces",
	"visualization_msgs":          "common_interfaces",
	"example_interfaces":          "example_interfaces",
	"builtin_interfaces":          "rcl_interfaces",
	"rosgraph_msgs":               "rcl_interfaces",
	"service_msgs":                "rcl_interfaces",
	"type_description_interfaces": "rcl_interfaces",
}

// RepositoryForPackage returns the repository name hosting package,
// and whether one is known.
func RepositoryForPackage(pkg string) (string, bool) {
	name, ok := PackageToRepository[pkg]
	return name, ok
}
