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

package qos

import "testing"

func TestDefaultProfileEncodesToPinnedString(t *testing.T) {
	const want = "::,7:,:,:,,"
	if got := Default.Encode(); got != want {
		t.Errorf("Default.Encode() = %q, want %q", got, want)
	}
}

func TestTransientLocalChangesOnlyDurabilitySubfield(t *testing.T) {
	p := Default
	p.Durability = DurabilityTransientLocal
	const want = ":1:,7:,:,:,,"
	if got := p.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestKeepAllDropsDepth(t *testing.T) {
	p := Default
	p.History = HistoryKeepAll
	const want = "::1,:,:,:,,"
	if got := p.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}
