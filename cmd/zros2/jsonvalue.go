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
	"fmt"

	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/schema"
)

// jsonToValue converts a decoded JSON object into a schema.Value
// shaped by msg, resolving nested struct fields through store. This
// is the CLI's only JSON<->Value bridge; the wire codec never sees
// JSON.
func jsonToValue(store *schema.TypeStore, msg schema.MessageSchema, raw map[string]any) (schema.Value, error) {
	fields := make([]schema.FieldValue, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		jv, ok := raw[f.Name]
		if !ok {
			return schema.Value{}, ierrors.New(ierrors.SchemaParseError, "missing field %q for %s", f.Name, msg.TypeName)
		}
		v, err := jsonFieldToValue(store, f, jv)
		if err != nil {
			return schema.Value{}, err
		}
		fields = append(fields, schema.FieldValue{Name: f.Name, Value: v})
	}
	return schema.Struct(fields...), nil
}

func jsonFieldToValue(store *schema.TypeStore, f schema.Field, jv any) (schema.Value, error) {
	switch f.Kind {
	case schema.KindArray, schema.KindSequence:
		list, ok := jv.([]any)
		if !ok {
			return schema.Value{}, ierrors.New(ierrors.SchemaParseError, "field %q expects a JSON array", f.Name)
		}
		elemField := schema.Field{Kind: f.ElemKind, TypeName: f.TypeName}
		items := make([]schema.Value, 0, len(list))
		for _, elem := range list {
			v, err := jsonFieldToValue(store, elemField, elem)
			if err != nil {
				return schema.Value{}, err
			}
			items = append(items, v)
		}
		if f.Kind == schema.KindArray {
			return schema.Array(items...), nil
		}
		return schema.Sequence(items...), nil

	case schema.KindStruct:
		obj, ok := jv.(map[string]any)
		if !ok {
			return schema.Value{}, ierrors.New(ierrors.SchemaParseError, "field %q expects a JSON object", f.Name)
		}
		nested, err := store.Message(f.TypeName)
		if err != nil {
			return schema.Value{}, err
		}
		return jsonToValue(store, nested, obj)

	default:
		return scalarFromJSON(f.Kind, jv)
	}
}

func scalarFromJSON(kind schema.Kind, jv any) (schema.Value, error) {
	switch kind {
	case schema.KindBool:
		b, ok := jv.(bool)
		if !ok {
			return schema.Value{}, ierrors.New(ierrors.SchemaParseError, "expected a JSON bool, got %T", jv)
		}
		return schema.Bool(b), nil
	case schema.KindString, schema.KindWString:
		s, ok := jv.(string)
		if !ok {
			return schema.Value{}, ierrors.New(ierrors.SchemaParseError, "expected a JSON string, got %T", jv)
		}
		return schema.String(s), nil
	}

	n, ok := jv.(float64)
	if !ok {
		return schema.Value{}, ierrors.New(ierrors.SchemaParseError, "expected a JSON number, got %T", jv)
	}
	switch kind {
	case schema.KindInt8:
		return schema.Int8(int8(n)), nil
	case schema.KindInt16:
		return schema.Int16(int16(n)), nil
	case schema.KindInt32:
		return schema.Int32(int32(n)), nil
	case schema.KindInt64:
		return schema.Int64(int64(n)), nil
	case schema.KindUint8:
		return schema.Uint8(uint8(n)), nil
	case schema.KindUint16:
		return schema.Uint16(uint16(n)), nil
	case schema.KindUint32:
		return schema.Uint32(uint32(n)), nil
	case schema.KindUint64:
		return schema.Uint64(uint64(n)), nil
	case schema.KindFloat32:
		return schema.Float32(float32(n)), nil
	case schema.KindFloat64:
		return schema.Float64(n), nil
	}
	return schema.Value{}, fmt.Errorf("unsupported scalar kind %v", kind)
}

// valueToJSON converts a schema.Value into a plain Go value suitable
// for encoding/json, independent of the message schema: a struct
// Value already carries its field names.
func valueToJSON(v schema.Value) any {
	switch v.Kind {
	case schema.KindStruct:
		obj := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			obj[f.Name] = valueToJSON(f.Value)
		}
		return obj
	case schema.KindArray, schema.KindSequence:
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = valueToJSON(item)
		}
		return items
	default:
		return v.Scalar
	}
}
