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
	"sync"

	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
)

// TypeStore holds every message type this process has parsed, keyed
// by fully-qualified type name. Publishers, subscribers, and the type
// hash engine all resolve nested struct fields through one shared
// store per session.
type TypeStore struct {
	mu       sync.RWMutex
	messages map[string]MessageSchema
	services map[string]ServiceSchema
}

// NewTypeStore returns an empty TypeStore.
func NewTypeStore() *TypeStore {
	return &TypeStore{
		messages: make(map[string]MessageSchema),
		services: make(map[string]ServiceSchema),
	}
}

// PutMessage registers a parsed message schema, replacing any prior
// schema for the same type name.
func (s *TypeStore) PutMessage(m MessageSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.TypeName] = m
}

// PutService registers a parsed service schema.
func (s *TypeStore) PutService(svc ServiceSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.TypeName] = svc
	s.messages[svc.Request.TypeName] = svc.Request
	s.messages[svc.Response.TypeName] = svc.Response
}

// Message looks up a previously-registered message schema.
func (s *TypeStore) Message(typeName string) (MessageSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.messages[typeName]
	if !ok {
		return MessageSchema{}, ierrors.New(ierrors.SchemaNotFound, "message type %q not registered", typeName)
	}
	return m, nil
}

// Service looks up a previously-registered service schema.
func (s *TypeStore) Service(typeName string) (ServiceSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[typeName]
	if !ok {
		return ServiceSchema{}, ierrors.New(ierrors.SchemaNotFound, "service type %q not registered", typeName)
	}
	return svc, nil
}

// Dependencies returns the fully-qualified type names a message
// directly references through struct, array-of-struct, or
// sequence-of-struct fields, in field order, without recursing.
func (m MessageSchema) Dependencies() []string {
	var deps []string
	seen := make(map[string]bool)
	for _, f := range m.Fields {
		if f.Kind != KindStruct && f.ElemKind != KindStruct {
			continue
		}
		if f.TypeName == "" || seen[f.TypeName] {
			continue
		}
		seen[f.TypeName] = true
		deps = append(deps, f.TypeName)
	}
	return deps
}
