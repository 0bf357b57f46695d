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

package wmi

import (
	"context"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/variant"
)

type client struct{}

// New returns a Querier that reports the management interface as unavailable.
func New() Querier {
	return client{}
}

func (client) Query(_ context.Context, namespace, query string) ([]variant.Record, error) {
	return nil, cerrors.NewWithContext(cerrors.ErrCodeSourceUnavailable,
		"WMI is only available on Windows",
		map[string]any{"namespace": namespace, "query": query})
}
