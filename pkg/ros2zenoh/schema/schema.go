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

// Package schema holds the in-memory data model for parsed ROS2
// message and service definitions, the CDR wire codec, and the
// TypeStore that resolves a message's nested type references.
package schema

import "fmt"

// Kind identifies the shape of a Field or a Value.
type Kind int

const (
	KindBool Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindWString
	KindArray    // fixed-size, Field.ArrayLen > 0
	KindSequence // unbounded, or bounded by Field.BoundedLen > 0
	KindStruct   // nested message type, Field.TypeName identifies it
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindWString:
		return "wstring"
	case KindArray:
		return "array"
	case KindSequence:
		return "sequence"
	case KindStruct:
		return "struct"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsPrimitive reports whether k is a scalar, non-string primitive.
func (k Kind) IsPrimitive() bool {
	return k >= KindBool && k <= KindFloat64
}

// Field is one member of a message definition, in declaration order.
type Field struct {
	Name       string
	Kind       Kind
	TypeName   string // fully-qualified type, set when Kind == KindStruct or the element kind of an array/sequence of structs
	ElemKind   Kind   // element kind, set when Kind == KindArray or KindSequence
	ArrayLen   int    // fixed length, set when Kind == KindArray
	BoundedLen int    // upper bound, 0 means unbounded, set when Kind == KindSequence
	Default    string // raw default-value text, informational only
}

// Constant is a named compile-time constant declared in a message or
// service definition. Constants are parsed for completeness but are
// never serialized or hashed: RIHS01 and CDR both operate on fields
// only.
type Constant struct {
	Name  string
	Kind  Kind
	Value string
}

// MessageSchema is a fully-parsed .msg definition.
type MessageSchema struct {
	TypeName  string // e.g. "std_msgs/msg/String"
	Raw       string // original definition text
	Fields    []Field
	Constants []Constant
}

// ServiceSchema is a fully-parsed .srv definition: a request message
// and a response message. The synthetic event message rmw_zenoh
// derives from both is added only when hashing (see
// typehash.ServiceHash).
type ServiceSchema struct {
	TypeName string // e.g. "example_interfaces/srv/AddTwoInts"
	Raw      string
	Request  MessageSchema
	Response MessageSchema
}

// RequestTypeName is the DDS-visible name of the request half of a
// service, e.g. "example_interfaces/srv/AddTwoInts_Request".
func (s ServiceSchema) RequestTypeName() string {
	return s.TypeName + "_Request"
}

// ResponseTypeName is the DDS-visible name of the response half.
func (s ServiceSchema) ResponseTypeName() string {
	return s.TypeName + "_Response"
}
