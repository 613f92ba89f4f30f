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

package schema

import "math"

// scalarByte, scalarUintN widen whatever signed or unsigned integer
// type a Value.Scalar happens to hold (int8 or uint8, int16 or
// uint16, ...) to a fixed-width unsigned value for CDR encoding: the
// wire representation of a signed and unsigned integer of the same
// width is identical two's-complement bytes.
func scalarByte(s any) byte {
	switch n := s.(type) {
	case int8:
		return byte(n)
	case uint8:
		return n
	default:
		return 0
	}
}

func scalarUint16(s any) uint16 {
	switch n := s.(type) {
	case int16:
		return uint16(n)
	case uint16:
		return n
	default:
		return 0
	}
}

func scalarUint32(s any) uint32 {
	switch n := s.(type) {
	case int32:
		return uint32(n)
	case uint32:
		return n
	default:
		return 0
	}
}

func scalarUint64(s any) uint64 {
	switch n := s.(type) {
	case int64:
		return uint64(n)
	case uint64:
		return n
	default:
		return 0
	}
}

func float32bits(f float32) uint32 { return math.Float32bits(f) }
func float64bits(f float64) uint64 { return math.Float64bits(f) }

func float32FromBits(b uint32) float32 { return math.Float32frombits(b) }
func float64FromBits(b uint64) float64 { return math.Float64frombits(b) }

func u16le(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func u32le(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func u64le(v uint64) []byte {
	return []byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
		byte(v >> 32), byte(v >> 40), byte(v >> 48), byte(v >> 56),
	}
}
