// Copyright (c) 2025, The cirg Authors.  All rights reserved.
//
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

package sourcetest

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/source/registry"
)

// Registry is an in-memory registry.Store. Paths are case-insensitive.
// Values may be string, uint32, uint64, int or []byte.
type Registry struct {
	mu    sync.Mutex
	roots map[registry.Root]*node
	open  int
}

type node struct {
	name   string
	values map[string]any
	subs   map[string]*node
}

func newNode(name string) *node {
	return &node{name: name, values: make(map[string]any), subs: make(map[string]*node)}
}

// NewRegistry returns an empty fake.
func NewRegistry() *Registry {
	return &Registry{roots: map[registry.Root]*node{
		registry.LocalMachine: newNode("HKLM"),
		registry.CurrentUser:  newNode("HKCU"),
	}}
}

func split(path string) []string {
	var out []string
	for _, p := range strings.Split(path, `\`) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (n *node) walk(parts []string, create bool) *node {
	cur := n
	for _, p := range parts {
		next, ok := cur.subs[strings.ToLower(p)]
		if !ok {
			if !create {
				return nil
			}
			next = newNode(p)
			cur.subs[strings.ToLower(p)] = next
		}
		cur = next
	}
	return cur
}

// AddKey creates the key at path, including parents.
func (r *Registry) AddKey(root registry.Root, path string) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots[root].walk(split(path), true)
	return r
}

// Set creates the key at path if needed and sets one value.
func (r *Registry) Set(root registry.Root, path, name string, value any) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots[root].walk(split(path), true).values[name] = value
	return r
}

// OpenKeys returns the number of keys opened and not yet closed.
func (r *Registry) OpenKeys() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open
}

func notExist(path string) error {
	return cerrors.WrapWithContext(cerrors.ErrCodeSourceUnavailable, "registry path not found",
		registry.ErrNotExist, map[string]any{"path": path})
}

// Open implements registry.Store.
func (r *Registry) Open(root registry.Root, path string) (registry.Key, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.roots[root].walk(split(path), false)
	if n == nil {
		return nil, notExist(root.String() + `\` + path)
	}
	r.open++
	return &fakeKey{reg: r, n: n, path: root.String() + `\` + path}, nil
}

type fakeKey struct {
	reg  *Registry
	n    *node
	path string
}

func (k *fakeKey) value(name string) (any, error) {
	k.reg.mu.Lock()
	defer k.reg.mu.Unlock()
	v, ok := k.n.values[name]
	if !ok {
		return nil, cerrors.WrapWithContext(cerrors.ErrCodeFieldMissing, "registry path not found",
			registry.ErrNotExist, map[string]any{"path": k.path + `\` + name})
	}
	return v, nil
}

func mismatch(path string) error {
	return cerrors.WrapWithContext(cerrors.ErrCodeFieldTypeMismatch, "registry value has unexpected type",
		registry.ErrUnexpectedType, map[string]any{"path": path})
}

func (k *fakeKey) String(name string) (string, error) {
	v, err := k.value(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", mismatch(k.path + `\` + name)
	}
	return s, nil
}

func (k *fakeKey) Integer(name string) (uint64, error) {
	v, err := k.value(name)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case uint32:
		return uint64(x), nil
	case uint64:
		return x, nil
	case int:
		return uint64(x), nil
	case []byte:
		if len(x) == 0 || len(x) > 8 {
			return 0, mismatch(k.path + `\` + name)
		}
		var n uint64
		for i := len(x) - 1; i >= 0; i-- {
			n = n<<8 | uint64(x[i])
		}
		return n, nil
	default:
		return 0, mismatch(k.path + `\` + name)
	}
}

func (k *fakeKey) SubKeyNames() ([]string, error) {
	k.reg.mu.Lock()
	defer k.reg.mu.Unlock()
	out := make([]string, 0, len(k.n.subs))
	for _, s := range k.n.subs {
		out = append(out, s.name)
	}
	slices.Sort(out)
	return out, nil
}

func (k *fakeKey) ValueNames() ([]string, error) {
	k.reg.mu.Lock()
	defer k.reg.mu.Unlock()
	out := make([]string, 0, len(k.n.values))
	for name := range k.n.values {
		out = append(out, name)
	}
	slices.Sort(out)
	return out, nil
}

func (k *fakeKey) OpenSubKey(path string) (registry.Key, error) {
	k.reg.mu.Lock()
	defer k.reg.mu.Unlock()
	n := k.n.walk(split(path), false)
	if n == nil {
		return nil, notExist(k.path + `\` + path)
	}
	k.reg.open++
	return &fakeKey{reg: k.reg, n: n, path: k.path + `\` + path}, nil
}

func (k *fakeKey) Close() error {
	k.reg.mu.Lock()
	defer k.reg.mu.Unlock()
	if k.reg.open == 0 {
		return fmt.Errorf("close of %s: no open keys", k.path)
	}
	k.reg.open--
	return nil
}
