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

//go:build !windows

package registry

import (
	cerrors "github.com/cirg-dev/cirg/pkg/errors"
)

type store struct{}

// New returns a Store that reports the registry as unavailable.
func New() Store {
	return store{}
}

func (store) Open(root Root, path string) (Key, error) {
	return nil, cerrors.WrapWithContext(cerrors.ErrCodeSourceUnavailable,
		"registry is only available on Windows", ErrNotExist,
		map[string]any{"path": root.String() + `\` + path})
}
