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

// Value is a dynamically-typed ROS2 message value: a tagged union
// rather than a Go struct, since message shapes are only known at
// runtime from a parsed MessageSchema.
type Value struct {
	Kind   Kind
	Scalar any // bool, intN, uintN, float32/64, or string, when Kind is a scalar kind
	Items  []Value
	Fields []FieldValue
}

// FieldValue pairs a struct field's name with its value, in
// declaration order.
type FieldValue struct {
	Name  string
	Value Value
}

// Field looks up a named field on a struct Value.
func (v Value) Field(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Struct builds a KindStruct Value from name/value pairs, in the
// order given.
func Struct(fields ...FieldValue) Value {
	return Value{Kind: KindStruct, Fields: fields}
}

func scalar(k Kind, v any) Value {
	return Value{Kind: k, Scalar: v}
}

func Bool(b bool) Value       { return scalar(KindBool, b) }
func Int8(n int8) Value       { return scalar(KindInt8, n) }
func Int16(n int16) Value     { return scalar(KindInt16, n) }
func Int32(n int32) Value     { return scalar(KindInt32, n) }
func Int64(n int64) Value     { return scalar(KindInt64, n) }
func Uint8(n uint8) Value     { return scalar(KindUint8, n) }
func Uint16(n uint16) Value   { return scalar(KindUint16, n) }
func Uint32(n uint32) Value   { return scalar(KindUint32, n) }
func Uint64(n uint64) Value   { return scalar(KindUint64, n) }
func Float32(f float32) Value { return scalar(KindFloat32, f) }
func Float64(f float64) Value { return scalar(KindFloat64, f) }
func String(s string) Value   { return scalar(KindString, s) }

// Array builds a fixed-size KindArray Value. The element kind is
// carried by the corresponding Field in the message's schema, not by
// the Value itself; codecs that need it take a Field alongside the
// Value.
func Array(items ...Value) Value {
	return Value{Kind: KindArray, Items: items}
}

// Sequence builds an unbounded KindSequence Value.
func Sequence(items ...Value) Value {
	return Value{Kind: KindSequence, Items: items}
}
