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

// Package config loads and validates the SDK's YAML configuration:
// router endpoint, domain ID, cache directory, package-to-repository
// overrides, and the service defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/pubsub"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/reposource"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/service"
)

// RouterParameters configures the Zenoh router a session dials.
type RouterParameters struct {
	IP   string `yaml:"ip,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// Validate checks the router parameters for obvious misconfiguration.
func (r RouterParameters) Validate() error {
	if r.IP == "" {
		return fmt.Errorf("router ip must not be empty")
	}
	if r.Port <= 0 || r.Port > 65535 {
		return fmt.Errorf("router port %d out of range", r.Port)
	}
	return nil
}

// CacheParameters configures where downloaded message/service
// definitions are cached on disk.
type CacheParameters struct {
	Dir string `yaml:"dir,omitempty"`
}

// Parameters is the SDK's top-level configuration.
type Parameters struct {
	// DomainID is the default ROS domain ID new endpoints use unless
	// overridden at construction time.
	DomainID int `yaml:"domain-id,omitempty"`

	// Router identifies the Zenoh router endpoint sessions dial.
	Router RouterParameters `yaml:"router,omitempty"`

	// Cache configures on-disk caching of fetched message
	// definitions.
	Cache CacheParameters `yaml:"cache,omitempty"`

	// PackageRepositories adds to, or overrides, the built-in
	// package-to-repository mapping as seen through ResolveRepository.
	// reposource.Fetcher does not consult it; fetches use the built-in
	// table only.
	PackageRepositories map[string]string `yaml:"package-repositories,omitempty"`

	// ServiceQueueDepth is a bounded-queue depth for queue-mode service
	// servers. Only Validate reads it: service.NewServer takes its depth
	// from ServerOptions.QueueDepth.
	ServiceQueueDepth int `yaml:"service-queue-depth,omitempty"`

	// DiscoveryTimeoutSeconds is a timeout, in seconds, for
	// transient-local history discovery and replay queries. Only
	// Validate reads it: pubsub uses its fixed DiscoveryTimeout.
	DiscoveryTimeoutSeconds float64 `yaml:"discovery-timeout-seconds,omitempty"`
}

// Validate checks the parameters for obvious misconfiguration.
func (p *Parameters) Validate() error {
	if err := p.Router.Validate(); err != nil {
		return err
	}
	if p.DomainID < 0 {
		return fmt.Errorf("domain-id must not be negative, got %d", p.DomainID)
	}
	if p.ServiceQueueDepth <= 0 {
		return fmt.Errorf("service-queue-depth must be positive, got %d", p.ServiceQueueDepth)
	}
	if p.DiscoveryTimeoutSeconds <= 0 {
		return fmt.Errorf("discovery-timeout-seconds must be positive, got %v", p.DiscoveryTimeoutSeconds)
	}
	return nil
}

// Defaults returns the default set of parameters: the loopback
// router on the standard Zenoh port, no repository overrides, and the
// queue depth and discovery timeout the SDK otherwise hard-codes.
func Defaults() Parameters {
	return Parameters{
		DomainID: 0,
		Router: RouterParameters{
			IP:   "127.0.0.1",
			Port: 7447,
		},
		ServiceQueueDepth:       service.DefaultQueueDepth,
		DiscoveryTimeoutSeconds: pubsub.DiscoveryTimeout.Seconds(),
	}
}

// Parse reads parameters from a YAML input stream. Any parameters not
// specified by the input take their value from Defaults().
func Parse(in io.Reader) (*Parameters, error) {
	conf := Defaults()
	decoder := yaml.NewDecoder(in)
	decoder.KnownFields(true)

	if err := decoder.Decode(&conf); err != nil {
		if err != io.EOF {
			return nil, ierrors.Wrap(ierrors.SchemaParseError, err, "parsing configuration")
		}
	}
	return &conf, nil
}

// ResolveRepository looks up the repository for a ROS package,
// preferring an override from PackageRepositories over the built-in
// reposource.PackageToRepository table.
func (p *Parameters) ResolveRepository(pkg string) (reposource.Repository, bool) {
	if name, ok := p.PackageRepositories[pkg]; ok {
		repo, ok := reposource.Repositories[name]
		return repo, ok
	}
	name, ok := reposource.RepositoryForPackage(pkg)
	if !ok {
		return reposource.Repository{}, false
	}
	repo, ok := reposource.Repositories[name]
	return repo, ok
}

// CacheDirOr returns p.Cache.Dir if set, otherwise reposource's
// default cache directory resolution (ZENOH_ROS2_SDK_CACHE or
// $HOME/.cache/zenoh_ros2_sdk).
func (p *Parameters) CacheDirOr() (string, error) {
	if p.Cache.Dir != "" {
		return p.Cache.Dir, nil
	}
	return reposource.CacheDir()
}

// DomainIDFromEnv reads ROS_DOMAIN_ID, falling back to fallback if
// unset or unparsable.
func DomainIDFromEnv(fallback int) int {
	v, ok := os.LookupEnv("ROS_DOMAIN_ID")
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
