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
	"strings"

	internallog "github.com/zenoh-ros2/sdk/internal/log"
	"github.com/zenoh-ros2/sdk/pkg/config"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/reposource"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/schema"
	"github.com/zenoh-ros2/sdk/pkg/ros2zenoh/typehash"
)

// cacheContext holds the flags shared by the "cache" sub-commands.
type cacheContext struct {
	MessagesDir string
	CacheDir    string
	TypeName    string
}

func newFetcher(log internallog.Logger, cc *cacheContext) (*reposource.Fetcher, error) {
	cacheDir := cc.CacheDir
	if cacheDir == "" {
		conf := config.Defaults()
		dir, err := conf.CacheDirOr()
		if err != nil {
			return nil, err
		}
		cacheDir = dir
	}
	return reposource.NewFetcher(log, cc.MessagesDir, cacheDir)
}

func doCacheResolve(log internallog.Logger, cc *cacheContext) error {
	fetcher, err := newFetcher(log, cc)
	if err != nil {
		return err
	}
	path, err := fetcher.Resolve(cc.TypeName)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func doCacheHash(log internallog.Logger, cc *cacheContext) error {
	fetcher, err := newFetcher(log, cc)
	if err != nil {
		return err
	}

	store := schema.NewTypeStore()

	if strings.Contains(cc.TypeName, "/srv/") {
		svc, err := fetcher.LoadServiceRecursive(store, cc.TypeName)
		if err != nil {
			return err
		}
		hash, err := typehash.ServiceHash(store, svc)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	}

	if err := fetcher.LoadRecursive(store, cc.TypeName); err != nil {
		return err
	}
	hash, err := typehash.Hash(store, cc.TypeName)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
