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

package entity

import (
	"strings"
	"testing"
)

func TestGIDStringIsHexEncoded(t *testing.T) {
	var g GID
	for i := range g {
		g[i] = byte(i)
	}
	want := "000102030405060708090a0b0c0d0e0f"
	if got := g.String(); got != want {
		t.Errorf("GID.String() = %q, want %q", got, want)
	}
}

func TestGIDZeroValueStringsAsZeros(t *testing.T) {
	var g GID
	want := strings.Repeat("00", GIDSize)
	if got := g.String(); got != want {
		t.Errorf("GID.String() = %q, want %q", got, want)
	}
}
