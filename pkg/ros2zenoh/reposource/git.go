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
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	ierrors "github.com/zenoh-ros2/sdk/internal/errors"
	"github.com/zenoh-ros2/sdk/internal/log"
)

// Fetcher clones (or reuses an existing clone of) the repositories
// backing the interface packages a process references, and resolves
// a fully-qualified type to the .msg/.srv file on disk.
type Fetcher struct {
	log         log.Logger
	messagesDir string // checked before any clone
	cacheDir    string
}

// NewFetcher builds a Fetcher. messagesDir is checked first for every
// lookup; cacheDir, when empty, defaults to CacheDir()'s result.
func NewFetcher(logger log.Logger, messagesDir, cacheDir string) (*Fetcher, error) {
	if cacheDir == "" {
		dir, err := CacheDir()
		if err != nil {
			return nil, err
		}
		cacheDir = dir
	}
	return &Fetcher{log: logger, messagesDir: messagesDir, cacheDir: cacheDir}, nil
}

// Resolve returns the on-disk path to typeName's definition, cloning
// its owning repository into the cache on a miss. A clone failure is
// non-fatal to the caller: Resolve returns an error the caller can
// treat as "type not found" rather than crash the process.
func (f *Fetcher) Resolve(typeName string) (string, error) {
	if path, ok := Locate(f.messagesDir, typeName); ok {
		return path, nil
	}

	pkg, err := packageOf(typeName)
	if err != nil {
		return "", err
	}
	repoName, ok := RepositoryForPackage(pkg)
	if !ok {
		return "", ierrors.New(ierrors.SchemaNotFound, "no known repository for package %q", pkg)
	}
	repo, ok := Repositories[repoName]
	if !ok {
		return "", ierrors.New(ierrors.SchemaNotFound, "unknown repository %q", repoName)
	}

	repoPath, err := f.cloneOrOpen(repoName, repo)
	if err != nil {
		return "", ierrors.Wrap(ierrors.SchemaNotFound, err, "fetching repository %q for %q", repoName, typeName)
	}

	path, err := MessageFilePath(repoPath, repo, typeName)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", ierrors.New(ierrors.SchemaNotFound, "%s not found in %s", typeName, repoName)
	}
	return path, nil
}

func (f *Fetcher) cloneOrOpen(repoName string, repo Repository) (string, error) {
	target := filepath.Join(f.cacheDir, repo.CachePath)

	existing, err := git.PlainOpen(target)
	if err == nil {
		return target, nil
	}

	f.log.Infof("cloning %s into %s", repo.URL, target)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", ierrors.Wrap(ierrors.TransportError, err, "creating cache directory")
	}

	cloned, err := git.PlainClone(target, false, &git.CloneOptions{
		URL:   repo.URL,
		Depth: 1,
	})
	if err != nil {
		return "", ierrors.Wrap(ierrors.TransportError, err, "cloning %s", repo.URL)
	}
	existing = cloned

	if repo.Commit != "" {
		if err := checkoutRef(existing, repo.Commit); err != nil {
			f.log.Error(ierrors.Wrap(ierrors.TransportError, err, "checking out %s", repo.Commit), "falling back to default branch")
		}
	}

	return target, nil
}

func checkoutRef(repo *git.Repository, ref string) error {
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	return wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(ref),
	})
}

func packageOf(typeName string) (string, error) {
	parts := strings.Split(typeName, "/")
	if len(parts) < 1 || parts[0] == "" {
		return "", ierrors.New(ierrors.SchemaParseError, "malformed type name %q", typeName)
	}
	return parts[0], nil
}
