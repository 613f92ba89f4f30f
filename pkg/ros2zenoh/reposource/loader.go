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

package reposource

import (
	"os"

	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/schema"
)

// LoadRecursive resolves typeName, parses it, registers it in store,
// and recursively does the same for every type it depends on. It is
// a no-op for a type store already holds.
func (f *Fetcher) LoadRecursive(store *schema.TypeStore, typeName string) error {
	return f.loadRecursive(store, typeName, make(map[string]bool))
}

func (f *Fetcher) loadRecursive(store *schema.TypeStore, typeName string, visited map[string]bool) error {
	if visited[typeName] {
		return nil
	}
	visited[typeName] = true

	if _, err := store.Message(typeName); err == nil {
		return nil
	}

	path, err := f.Resolve(typeName)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	msg, err := schema.Parse(typeName, string(raw))
	if err != nil {
		return err
	}
	store.PutMessage(msg)

	for _, dep := range msg.Dependencies() {
		if err := f.loadRecursive(store, dep, visited); err != nil {
			return err
		}
	}
	return nil
}

// LoadServiceRecursive resolves and parses a .srv definition for
// typeName, registers it and its Request/Response schemas in store,
// and recursively loads every type either half depends on.
func (f *Fetcher) LoadServiceRecursive(store *schema.TypeStore, typeName string) (schema.ServiceSchema, error) {
	if svc, err := store.Service(typeName); err == nil {
		return svc, nil
	}

	path, err := f.Resolve(typeName)
	if err != nil {
		return schema.ServiceSchema{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return schema.ServiceSchema{}, err
	}
	svc, err := schema.ParseService(typeName, string(raw))
	if err != nil {
		return schema.ServiceSchema{}, err
	}
	store.PutService(svc)

	visited := make(map[string]bool)
	for _, dep := range svc.Request.Dependencies() {
		if err := f.loadRecursive(store, dep, visited); err != nil {
			return schema.ServiceSchema{}, err
		}
	}
	for _, dep := range svc.Response.Dependencies() {
		if err := f.loadRecursive(store, dep, visited); err != nil {
			return schema.ServiceSchema{}, err
		}
	}
	return svc, nil
}
