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

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatsWithAndWithoutCause(t *testing.T) {
	plain := New(SchemaNotFound, "type %s not found", "std_msgs/msg/String")
	assert.Equal(t, "SchemaNotFound: type std_msgs/msg/String not found", plain.Error())

	wrapped := Wrap(TransportError, errors.New("connection refused"), "put failed")
	assert.Equal(t, "TransportError: put failed: connection refused", wrapped.Error())
	assert.Equal(t, "connection refused", wrapped.Unwrap().Error())
}

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	base := New(Timeout, "no response within %s", "1s")
	outer := fmt.Errorf("call failed: %w", base)

	assert.True(t, Is(outer, Timeout))
	assert.False(t, Is(outer, ProtocolError))
	assert.False(t, Is(nil, Timeout))
}
