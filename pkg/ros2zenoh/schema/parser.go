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

import (
	"strconv"
	"strings"

	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
)

var primitiveKinds = map[string]Kind{
	"bool":    KindBool,
	"int8":    KindInt8,
	"int16":   KindInt16,
	"int32":   KindInt32,
	"int64":   KindInt64,
	"uint8":   KindUint8,
	"byte":    KindUint8,
	"char":    KindUint8,
	"uint16":  KindUint16,
	"uint32":  KindUint32,
	"uint64":  KindUint64,
	"float32": KindFloat32,
	"float64": KindFloat64,
	"string":  KindString,
	"wstring": KindWString,
}

// Parse parses a .msg definition body into a MessageSchema. typeName
// is the fully-qualified type this definition belongs to, e.g.
// "std_msgs/msg/String"; it is used to resolve unqualified nested
// type references to the same package.
func Parse(typeName, definition string) (MessageSchema, error) {
	msg := MessageSchema{TypeName: typeName, Raw: definition}

	pkg, err := packageOf(typeName)
	if err != nil {
		return MessageSchema{}, err
	}

	for _, line := range strings.Split(definition, "\n") {
		line = stripComment(line)
		if line == "" {
			continue
		}

		if idx := strings.Index(line, "="); idx >= 0 && !strings.Contains(line[:idx], "[") {
			c, ok, err := parseConstantLine(line)
			if err != nil {
				return MessageSchema{}, ierrors.Wrap(ierrors.SchemaParseError, err, "parsing %s", typeName)
			}
			if ok {
				msg.Constants = append(msg.Constants, c)
				continue
			}
		}

		f, err := parseFieldLine(line, pkg)
		if err != nil {
			return MessageSchema{}, ierrors.Wrap(ierrors.SchemaParseError, err, "parsing %s", typeName)
		}
		msg.Fields = append(msg.Fields, f)
	}

	return msg, nil
}

// ParseService parses a .srv definition: two field blocks separated by
// a line of exactly "---".
func ParseService(typeName, definition string) (ServiceSchema, error) {
	parts := strings.SplitN(definition, "\n---\n", 2)
	if len(parts) != 2 {
		return ServiceSchema{}, ierrors.New(ierrors.SchemaParseError, "service definition %s missing '---' separator", typeName)
	}

	req, err := Parse(typeName+"_Request", parts[0])
	if err != nil {
		return ServiceSchema{}, err
	}
	resp, err := Parse(typeName+"_Response", parts[1])
	if err != nil {
		return ServiceSchema{}, err
	}

	return ServiceSchema{TypeName: typeName, Raw: definition, Request: req, Response: resp}, nil
}

func packageOf(typeName string) (string, error) {
	parts := strings.Split(typeName, "/")
	if len(parts) < 1 || parts[0] == "" {
		return "", ierrors.New(ierrors.SchemaParseError, "malformed type name %q", typeName)
	}
	return parts[0], nil
}

func stripComment(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}
	// Strip a trailing "# ..." comment by cutting at the first '#',
	// including one inside a quoted default-value string; message
	// definitions rarely quote '#' so a simple scan is sufficient.
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	return line
}

func parseConstantLine(line string) (Constant, bool, error) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return Constant{}, false, nil
	}
	head := strings.TrimSpace(line[:eq])
	value := strings.TrimSpace(line[eq+1:])

	words := strings.Fields(head)
	if len(words) != 2 {
		return Constant{}, false, nil
	}
	kind, ok := primitiveKinds[words[0]]
	if !ok {
		return Constant{}, false, nil
	}
	return Constant{Name: words[1], Kind: kind, Value: value}, true, nil
}

func parseFieldLine(line, pkg string) (Field, error) {
	words := strings.Fields(line)
	if len(words) < 2 {
		return Field{}, ierrors.New(ierrors.SchemaParseError, "malformed field line %q", line)
	}
	typeToken, name := words[0], words[1]
	def := strings.Join(words[2:], " ")

	if bracket := strings.Index(typeToken, "["); bracket >= 0 {
		base := typeToken[:bracket]
		spec := typeToken[bracket+1 : strings.Index(typeToken, "]")]
		f, err := arrayField(base, spec, name, pkg)
		f.Default = def
		return f, err
	}

	if kind, ok := primitiveKinds[typeToken]; ok {
		return Field{Name: name, Kind: kind, Default: def}, nil
	}

	return Field{Name: name, Kind: KindStruct, TypeName: qualify(typeToken, pkg), Default: def}, nil
}

func arrayField(base, spec, name, pkg string) (Field, error) {
	var elemKind Kind
	var elemType string
	if kind, ok := primitiveKinds[base]; ok {
		elemKind = kind
	} else {
		elemKind = KindStruct
		elemType = qualify(base, pkg)
	}

	switch {
	case spec == "":
		return Field{Name: name, Kind: KindSequence, ElemKind: elemKind, TypeName: elemType}, nil
	case strings.HasPrefix(spec, "<="):
		n, err := strconv.Atoi(strings.TrimPrefix(spec, "<="))
		if err != nil {
			return Field{}, ierrors.New(ierrors.SchemaParseError, "bad bounded array spec %q", spec)
		}
		return Field{Name: name, Kind: KindSequence, ElemKind: elemKind, TypeName: elemType, BoundedLen: n}, nil
	default:
		n, err := strconv.Atoi(spec)
		if err != nil {
			return Field{}, ierrors.New(ierrors.SchemaParseError, "bad fixed array spec %q", spec)
		}
		return Field{Name: name, Kind: KindArray, ElemKind: elemKind, TypeName: elemType, ArrayLen: n}, nil
	}
}

// qualify resolves a type token to a fully-qualified "<pkg>/msg/<Name>"
// type name: already-qualified tokens pass through unchanged.
func qualify(token, pkg string) string {
	if strings.Contains(token, "/") {
		return token
	}
	return pkg + "/msg/" + token
}
