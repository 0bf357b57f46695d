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
	"context"
	"regexp"
	"strings"
	"sync"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/variant"
)

var fromClass = regexp.MustCompile(`(?i)\bFROM\s+(\w+)`)

// WMI is an in-memory wmi.Querier. Results are registered per namespace and
// class; queries against anything unregistered fail with SOURCE_UNAVAILABLE.
type WMI struct {
	mu      sync.Mutex
	results map[string][]variant.Record
	errs    map[string]error
	queries []string
}

// NewWMI returns an empty fake.
func NewWMI() *WMI {
	return &WMI{
		results: make(map[string][]variant.Record),
		errs:    make(map[string]error),
	}
}

func wmiKey(namespace, class string) string {
	return strings.ToLower(namespace) + "|" + strings.ToLower(class)
}

// Add registers rows for class in namespace.
func (w *WMI) Add(namespace, class string, rows ...variant.Record) *WMI {
	w.mu.Lock()
	defer w.mu.Unlock()
	k := wmiKey(namespace, class)
	w.results[k] = append(w.results[k], rows...)
	return w
}

// Fail makes queries for class in namespace return err.
func (w *WMI) Fail(namespace, class string, err error) *WMI {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errs[wmiKey(namespace, class)] = err
	return w
}

// Queries returns the queries issued so far.
func (w *WMI) Queries() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.queries...)
}

// Query implements wmi.Querier.
func (w *WMI) Query(ctx context.Context, namespace, query string) ([]variant.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queries = append(w.queries, query)

	m := fromClass.FindStringSubmatch(query)
	if m == nil {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, "unparseable query: "+query)
	}
	k := wmiKey(namespace, m[1])
	if err, ok := w.errs[k]; ok {
		return nil, err
	}
	rows, ok := w.results[k]
	if !ok {
		return nil, cerrors.NewWithContext(cerrors.ErrCodeSourceUnavailable, "invalid class",
			map[string]any{"namespace": namespace, "class": m[1]})
	}
	return rows, nil
}
