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

package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	conf, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Defaults()
	if !reflect.DeepEqual(*conf, want) {
		t.Fatalf("Parse(\"\") = %+v, want %+v", *conf, want)
	}
	if err := conf.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	yamlDoc := "domain-id: 3\nrouter:\n  ip: 10.0.0.1\n  port: 7450\nservice-queue-depth: 32\n"
	conf, err := Parse(strings.NewReader(yamlDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if conf.DomainID != 3 || conf.Router.IP != "10.0.0.1" || conf.Router.Port != 7450 || conf.ServiceQueueDepth != 32 {
		t.Fatalf("unexpected parsed parameters: %+v", conf)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := Parse(strings.NewReader("bogus-field: true\n")); err == nil {
		t.Fatal("Parse accepted an unknown field")
	}
}

func TestValidateRejectsNegativeDomainID(t *testing.T) {
	conf := Defaults()
	conf.DomainID = -1
	if err := conf.Validate(); err == nil {
		t.Fatal("Validate accepted a negative domain id")
	}
}

func TestValidateRejectsBadRouterPort(t *testing.T) {
	conf := Defaults()
	conf.Router.Port = 0
	if err := conf.Validate(); err == nil {
		t.Fatal("Validate accepted a zero router port")
	}
}

func TestResolveRepositoryUsesOverride(t *testing.T) {
	conf := Defaults()
	conf.PackageRepositories = map[string]string{"std_msgs": "rcl_interfaces"}

	repo, ok := conf.ResolveRepository("std_msgs")
	if !ok {
		t.Fatal("ResolveRepository did not find an override")
	}
	if repo.CachePath != "rcl_interfaces" {
		t.Fatalf("ResolveRepository returned %+v, want the rcl_interfaces repo", repo)
	}
}

func TestResolveRepositoryFallsBackToBuiltin(t *testing.T) {
	conf := Defaults()
	repo, ok := conf.ResolveRepository("geometry_msgs")
	if !ok {
		t.Fatal("ResolveRepository did not find the built-in mapping")
	}
	if repo.CachePath != "common_interfaces" {
		t.Fatalf("ResolveRepository returned %+v, want the common_interfaces repo", repo)
	}
}
