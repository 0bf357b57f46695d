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

package wua

import (
	"context"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
)

type searcher struct{}

// New returns a Searcher that reports the update agent as unavailable.
func New() Searcher {
	return searcher{}
}

func (searcher) Pending(context.Context) ([]Update, error) {
	return nil, cerrors.New(cerrors.ErrCodeSourceUnavailable, "Windows Update Agent is only available on Windows")
}
