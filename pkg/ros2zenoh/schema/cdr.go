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
	"encoding/binary"

	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
)

// encapsulationHeader is the 4-byte CDR encapsulation prefix rmw_zenoh
// puts on every sample: representation identifier 0x0001 (CDR_LE,
// PLAIN_CDR), options 0x0000.
var encapsulationHeader = [4]byte{0x00, 0x01, 0x00, 0x00}

// Encode serializes a message Value to classic little-endian CDR,
// including the 4-byte encapsulation header, using msg to resolve
// field kinds and nested struct types from store.
func Encode(store *TypeStore, msg MessageSchema, v Value) ([]byte, error) {
	w := &cdrWriter{buf: append([]byte(nil), encapsulationHeader[:]...), pos: 4}
	if err := w.writeStruct(store, msg, v); err != nil {
		return nil, ierrors.Wrap(ierrors.SerializationError, err, "encoding %s", msg.TypeName)
	}
	return w.buf, nil
}

// Decode deserializes classic little-endian CDR bytes (including the
// 4-byte encapsulation header) into a Value shaped by msg.
func Decode(store *TypeStore, msg MessageSchema, data []byte) (Value, error) {
	if len(data) < 4 {
		return Value{}, ierrors.New(ierrors.SerializationError, "decoding %s: payload shorter than encapsulation header", msg.TypeName)
	}
	r := &cdrReader{buf: data, pos: 4}
	v, err := r.readStruct(store, msg)
	if err != nil {
		return Value{}, ierrors.Wrap(ierrors.SerializationError, err, "decoding %s", msg.TypeName)
	}
	return v, nil
}

type cdrWriter struct {
	buf []byte
	pos int
}

// align pads to the next n-byte boundary measured from the end of the
// 4-byte encapsulation header, not from the start of the buffer: CDR
// alignment origin resets to 0 right after the header.
func (w *cdrWriter) align(n int) {
	body := w.pos - 4
	pad := (n - body%n) % n
	for i := 0; i < pad; i++ {
		w.buf = append(w.buf, 0)
	}
	w.pos += pad
}

func (w *cdrWriter) write(b []byte) {
	w.buf = append(w.buf, b...)
	w.pos += len(b)
}

func (w *cdrWriter) writeStruct(store *TypeStore, msg MessageSchema, v Value) error {
	for _, f := range msg.Fields {
		fv, ok := v.Field(f.Name)
		if !ok {
			return ierrors.New(ierrors.SerializationError, "missing field %q", f.Name)
		}
		if err := w.writeField(store, f, fv); err != nil {
			return err
		}
	}
	return nil
}

func (w *cdrWriter) writeField(store *TypeStore, f Field, v Value) error {
	switch f.Kind {
	case KindArray:
		if len(v.Items) != f.ArrayLen {
			return ierrors.New(ierrors.SerializationError, "field %q: array length %d, want %d", f.Name, len(v.Items), f.ArrayLen)
		}
		return w.writeElements(store, f, v.Items)
	case KindSequence:
		w.align(4)
		w.write(u32le(uint32(len(v.Items))))
		return w.writeElements(store, f, v.Items)
	case KindStruct:
		nested, err := store.Message(f.TypeName)
		if err != nil {
			return err
		}
		return w.writeStruct(store, nested, v)
	default:
		return w.writeScalar(f.Kind, v)
	}
}

func (w *cdrWriter) writeElements(store *TypeStore, f Field, items []Value) error {
	elemField := Field{Name: f.Name, Kind: f.ElemKind, TypeName: f.TypeName}
	for _, item := range items {
		if err := w.writeField(store, elemField, item); err != nil {
			return err
		}
	}
	return nil
}

func (w *cdrWriter) writeScalar(kind Kind, v Value) error {
	switch kind {
	case KindBool:
		b := v.Scalar.(bool)
		if b {
			w.write([]byte{1})
		} else {
			w.write([]byte{0})
		}
	case KindInt8, KindUint8:
		w.write([]byte{scalarByte(v.Scalar)})
	case KindInt16, KindUint16:
		w.align(2)
		w.write(u16le(scalarUint16(v.Scalar)))
	case KindInt32, KindUint32:
		w.align(4)
		w.write(u32le(scalarUint32(v.Scalar)))
	case KindInt64, KindUint64:
		w.align(8)
		w.write(u64le(scalarUint64(v.Scalar)))
	case KindFloat32:
		w.align(4)
		w.write(u32le(float32bits(v.Scalar.(float32))))
	case KindFloat64:
		w.align(8)
		w.write(u64le(float64bits(v.Scalar.(float64))))
	case KindString, KindWString:
		s := v.Scalar.(string)
		w.align(4)
		w.write(u32le(uint32(len(s) + 1)))
		w.write([]byte(s))
		w.write([]byte{0})
	default:
		return ierrors.New(ierrors.SerializationError, "unsupported scalar kind %s", kind)
	}
	return nil
}

type cdrReader struct {
	buf []byte
	pos int
}

// align advances to the next n-byte boundary measured from the end of
// the 4-byte encapsulation header; see cdrWriter.align.
func (r *cdrReader) align(n int) {
	body := r.pos - 4
	pad := (n - body%n) % n
	r.pos += pad
}

func (r *cdrReader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, ierrors.New(ierrors.SerializationError, "buffer underrun: need %d bytes at offset %d, have %d", n, r.pos, len(r.buf))
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *cdrReader) readStruct(store *TypeStore, msg MessageSchema) (Value, error) {
	fields := make([]FieldValue, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		fv, err := r.readField(store, f)
		if err != nil {
			return Value{}, err
		}
		fields = append(fields, FieldValue{Name: f.Name, Value: fv})
	}
	return Value{Kind: KindStruct, Fields: fields}, nil
}

func (r *cdrReader) readField(store *TypeStore, f Field) (Value, error) {
	switch f.Kind {
	case KindArray:
		return r.readElements(store, f, f.ArrayLen)
	case KindSequence:
		r.align(4)
		lenBytes, err := r.take(4)
		if err != nil {
			return Value{}, err
		}
		n := int(binary.LittleEndian.Uint32(lenBytes))
		return r.readElements(store, f, n)
	case KindStruct:
		nested, err := store.Message(f.TypeName)
		if err != nil {
			return Value{}, err
		}
		return r.readStruct(store, nested)
	default:
		return r.readScalar(f.Kind)
	}
}

func (r *cdrReader) readElements(store *TypeStore, f Field, n int) (Value, error) {
	elemField := Field{Name: f.Name, Kind: f.ElemKind, TypeName: f.TypeName}
	items := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		item, err := r.readField(store, elemField)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	kind := KindSequence
	if f.Kind == KindArray {
		kind = KindArray
	}
	return Value{Kind: kind, Items: items}, nil
}

func (r *cdrReader) readScalar(kind Kind) (Value, error) {
	switch kind {
	case KindBool:
		b, err := r.take(1)
		if err != nil {
			return Value{}, err
		}
		return Bool(b[0] != 0), nil
	case KindInt8:
		b, err := r.take(1)
		if err != nil {
			return Value{}, err
		}
		return Int8(int8(b[0])), nil
	case KindUint8:
		b, err := r.take(1)
		if err != nil {
			return Value{}, err
		}
		return Uint8(b[0]), nil
	case KindInt16:
		r.align(2)
		b, err := r.take(2)
		if err != nil {
			return Value{}, err
		}
		return Int16(int16(binary.LittleEndian.Uint16(b))), nil
	case KindUint16:
		r.align(2)
		b, err := r.take(2)
		if err != nil {
			return Value{}, err
		}
		return Uint16(binary.LittleEndian.Uint16(b)), nil
	case KindInt32:
		r.align(4)
		b, err := r.take(4)
		if err != nil {
			return Value{}, err
		}
		return Int32(int32(binary.LittleEndian.Uint32(b))), nil
	case KindUint32:
		r.align(4)
		b, err := r.take(4)
		if err != nil {
			return Value{}, err
		}
		return Uint32(binary.LittleEndian.Uint32(b)), nil
	case KindInt64:
		r.align(8)
		b, err := r.take(8)
		if err != nil {
			return Value{}, err
		}
		return Int64(int64(binary.LittleEndian.Uint64(b))), nil
	case KindUint64:
		r.align(8)
		b, err := r.take(8)
		if err != nil {
			return Value{}, err
		}
		return Uint64(binary.LittleEndian.Uint64(b)), nil
	case KindFloat32:
		r.align(4)
		b, err := r.take(4)
		if err != nil {
			return Value{}, err
		}
		return Float32(float32FromBits(binary.LittleEndian.Uint32(b))), nil
	case KindFloat64:
		r.align(8)
		b, err := r.take(8)
		if err != nil {
			return Value{}, err
		}
		return Float64(float64FromBits(binary.LittleEndian.Uint64(b))), nil
	case KindString, KindWString:
		r.align(4)
		lenBytes, err := r.take(4)
		if err != nil {
			return Value{}, err
		}
		n := int(binary.LittleEndian.Uint32(lenBytes))
		if n == 0 {
			return String(""), nil
		}
		sb, err := r.take(n)
		if err != nil {
			return Value{}, err
		}
		return String(string(sb[:n-1])), nil
	default:
		return Value{}, ierrors.New(ierrors.SerializationError, "unsupported scalar kind %s", kind)
	}
}
