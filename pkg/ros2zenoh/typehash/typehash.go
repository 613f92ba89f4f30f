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

// Package typehash computes the RIHS01 type hash that rmw_zenoh peers
// use as a discovery gate: two endpoints only match when their type
// hashes are bit-identical. The canonical form hashed here mirrors
// rosidl's own type_description_interfaces wire shape (type_id enum,
// capacity/string_capacity, nested_type_name) rather than an ad hoc
// JSON rendering of the parsed field list, so the digest reproduces
// the values real ROS2 tooling computes for the same type.
package typehash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/schema"
)

// Prefix is prepended to every computed hash's hex digest.
const Prefix = "RIHS01_"

// Field type-id constants from type_description_interfaces/msg/
// FieldType: a base id per primitive kind, with array/bounded-sequence/
// unbounded-sequence variants obtained by adding a fixed offset.
const (
	fieldTypeNestedType = 1
	fieldTypeInt8       = 2
	fieldTypeUint8      = 3
	fieldTypeInt16      = 4
	fieldTypeUint16     = 5
	fieldTypeInt32      = 6
	fieldTypeUint32     = 7
	fieldTypeInt64      = 8
	fieldTypeUint64     = 9
	fieldTypeFloat32    = 10
	fieldTypeFloat64    = 11
	fieldTypeBoolean    = 15
	fieldTypeString     = 17
	fieldTypeWString    = 18

	arrayOffset             = 32
	boundedSequenceOffset   = 64
	unboundedSequenceOffset = 96
)

// baseTypeID returns the scalar/nested type id for a kind that is not
// itself an array or sequence.
func baseTypeID(k schema.Kind) (uint8, error) {
	switch k {
	case schema.KindBool:
		return fieldTypeBoolean, nil
	case schema.KindInt8:
		return fieldTypeInt8, nil
	case schema.KindUint8:
		return fieldTypeUint8, nil
	case schema.KindInt16:
		return fieldTypeInt16, nil
	case schema.KindUint16:
		return fieldTypeUint16, nil
	case schema.KindInt32:
		return fieldTypeInt32, nil
	case schema.KindUint32:
		return fieldTypeUint32, nil
	case schema.KindInt64:
		return fieldTypeInt64, nil
	case schema.KindUint64:
		return fieldTypeUint64, nil
	case schema.KindFloat32:
		return fieldTypeFloat32, nil
	case schema.KindFloat64:
		return fieldTypeFloat64, nil
	case schema.KindString:
		return fieldTypeString, nil
	case schema.KindWString:
		return fieldTypeWString, nil
	case schema.KindStruct:
		return fieldTypeNestedType, nil
	default:
		return 0, ierrors.New(ierrors.SchemaParseError, "no RIHS01 type id for kind %s", k)
	}
}

// fieldTypeDescriptor is the type_id/capacity/string_capacity/
// nested_type_name quadruple type_description_interfaces/msg/
// FieldType declares for one field.
type fieldTypeDescriptor struct {
	typeID         uint8
	capacity       uint64
	stringCapacity uint64
	nestedTypeName string
}

func describeFieldType(f schema.Field) (fieldTypeDescriptor, error) {
	switch f.Kind {
	case schema.KindArray:
		base, err := baseTypeID(f.ElemKind)
		if err != nil {
			return fieldTypeDescriptor{}, err
		}
		return fieldTypeDescriptor{
			typeID:         base + arrayOffset,
			capacity:       uint64(f.ArrayLen),
			nestedTypeName: elemNestedName(f),
		}, nil
	case schema.KindSequence:
		base, err := baseTypeID(f.ElemKind)
		if err != nil {
			return fieldTypeDescriptor{}, err
		}
		if f.BoundedLen > 0 {
			return fieldTypeDescriptor{
				typeID:         base + boundedSequenceOffset,
				capacity:       uint64(f.BoundedLen),
				nestedTypeName: elemNestedName(f),
			}, nil
		}
		return fieldTypeDescriptor{
			typeID:         base + unboundedSequenceOffset,
			nestedTypeName: elemNestedName(f),
		}, nil
	case schema.KindStruct:
		return fieldTypeDescriptor{typeID: fieldTypeNestedType, nestedTypeName: f.TypeName}, nil
	default:
		id, err := baseTypeID(f.Kind)
		if err != nil {
			return fieldTypeDescriptor{}, err
		}
		return fieldTypeDescriptor{typeID: id}, nil
	}
}

func elemNestedName(f schema.Field) string {
	if f.ElemKind == schema.KindStruct {
		return f.TypeName
	}
	return ""
}

// jsonString quotes and escapes s exactly as encoding/json would for a
// bare string value, so it can be spliced into the hand-assembled
// canonical record below.
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func canonicalFieldType(d fieldTypeDescriptor) string {
	return fmt.Sprintf(`{"type_id": %d, "capacity": %d, "string_capacity": %d, "nested_type_name": %s}`,
		d.typeID, d.capacity, d.stringCapacity, jsonString(d.nestedTypeName))
}

func canonicalField(f schema.Field) (string, error) {
	d, err := describeFieldType(f)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`{"name": %s, "type": %s}`, jsonString(f.Name), canonicalFieldType(d)), nil
}

func canonicalIndividualTypeDescription(m schema.MessageSchema) (string, error) {
	fields := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		cf, err := canonicalField(f)
		if err != nil {
			return "", err
		}
		fields = append(fields, cf)
	}
	return fmt.Sprintf(`{"type_name": %s, "fields": [%s]}`, jsonString(m.TypeName), strings.Join(fields, ", ")), nil
}

// Hash computes the RIHS01 type hash for typeName, recursively
// collecting every transitive dependency found in store.
func Hash(store *schema.TypeStore, typeName string) (string, error) {
	m, err := store.Message(typeName)
	if err != nil {
		return "", err
	}
	return hashMessage(store, m)
}

func hashMessage(store *schema.TypeStore, m schema.MessageSchema) (string, error) {
	subject, err := canonicalIndividualTypeDescription(m)
	if err != nil {
		return "", err
	}

	refs, err := collectReferences(store, m)
	if err != nil {
		return "", err
	}

	record := fmt.Sprintf(`{"type_description": %s, "referenced_type_descriptions": [%s]}`, subject, strings.Join(refs, ", "))
	sum := sha256.Sum256([]byte(record))
	return Prefix + hex.EncodeToString(sum[:]), nil
}

// collectReferences describes every type m transitively depends on,
// deduplicated and sorted ascending by type name per spec step 3.
func collectReferences(store *schema.TypeStore, m schema.MessageSchema) ([]string, error) {
	seen := make(map[string]string)
	visiting := make(map[string]bool)

	var visit func(typeName string) error
	visit = func(typeName string) error {
		if _, ok := seen[typeName]; ok {
			return nil
		}
		if visiting[typeName] {
			return ierrors.New(ierrors.SchemaParseError, "cyclic type dependency at %q", typeName)
		}
		dep, err := store.Message(typeName)
		if err != nil {
			return err
		}

		visiting[typeName] = true
		for _, child := range dep.Dependencies() {
			if err := visit(child); err != nil {
				return err
			}
		}
		visiting[typeName] = false

		desc, err := canonicalIndividualTypeDescription(dep)
		if err != nil {
			return err
		}
		seen[typeName] = desc
		return nil
	}

	for _, dep := range m.Dependencies() {
		if err := visit(dep); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]string, len(names))
	for i, name := range names {
		out[i] = seen[name]
	}
	return out, nil
}

// ServiceEventInfoType is the standard ROS2 event-message type every
// service's synthetic hash references.
const ServiceEventInfoType = "service_msgs/msg/ServiceEventInfo"

// ServiceHash computes the RIHS01 hash of a service type: a synthetic
// record with three fields (request_message, response_message,
// event_message) per spec §4.5, rather than hashing the request and
// response messages independently.
func ServiceHash(store *schema.TypeStore, svc schema.ServiceSchema) (string, error) {
	synthetic := schema.MessageSchema{
		TypeName: svc.TypeName,
		Fields: []schema.Field{
			{Name: "request_message", Kind: schema.KindStruct, TypeName: svc.Request.TypeName},
			{Name: "response_message", Kind: schema.KindStruct, TypeName: svc.Response.TypeName},
			{Name: "event_message", Kind: schema.KindStruct, TypeName: ServiceEventInfoType},
		},
	}
	return hashMessage(store, synthetic)
}
