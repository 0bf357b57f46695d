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

package wmi

import (
	"context"

	"github.com/cirg-dev/cirg/pkg/variant"
)

// Namespaces queried by the probes.
const (
	NamespaceCIMV2           = `root\cimv2`
	NamespaceWMI             = `root\wmi`
	NamespaceStorage         = `root\Microsoft\Windows\Storage`
	NamespaceSecurityCenter2 = `root\SecurityCenter2`
	NamespaceStandardCIMV2   = `root\StandardCimv2`
	NamespaceTPM             = `root\cimv2\Security\MicrosoftTpm`
	NamespaceVolumeEncrypt   = `root\cimv2\Security\MicrosoftVolumeEncryption`
)

// Querier runs a WQL query against a namespace and returns one record per
// result row. Every call opens and closes its own session.
type Querier interface {
	Query(ctx context.Context, namespace, query string) ([]variant.Record, error)
}

// QueryFirst returns the first row of the query, or an error when the query
// fails or returns no rows.
func QueryFirst(ctx context.Context, q Querier, namespace, query string) (variant.Record, error) {
	rows, err := q.Query(ctx, namespace, query)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &EmptyResultError{Namespace: namespace, Query: query}
	}
	return rows[0], nil
}

// EmptyResultError is returned by QueryFirst when a query yields no rows.
type EmptyResultError struct {
	Namespace string
	Query     string
}

func (e *EmptyResultError) Error() string {
	return "no rows for " + e.Query + " in " + e.Namespace
}
