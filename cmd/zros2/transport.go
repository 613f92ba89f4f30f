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

package main

import (
	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/ztransport"
)

// dialTransport is the SDK's one hook into a real Zenoh client. The
// core treats Zenoh as a black-box collaborator (ztransport.Session)
// and ships no binding of its own; a production build replaces this
// variable with an adapter over whatever Zenoh client the deployment
// uses. The default here always fails, so a binary built straight
// from this module gives a clear error rather than silently doing
// nothing on the wire.
var dialTransport = func(routerIP string, routerPort int) (ztransport.Session, error) {
	return nil, ierrors.New(ierrors.TransportError,
		"no Zenoh transport adapter configured: rebuild with dialTransport set to a ztransport.Session implementation for router %s:%d", routerIP, routerPort)
}
