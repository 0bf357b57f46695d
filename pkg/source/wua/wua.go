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

package wua

import "context"

// PendingCriteria selects applicable updates that are neither installed
// nor hidden by the user.
const PendingCriteria = "IsInstalled=0 AND IsHidden=0"

// Update is one applicable Windows update.
type Update struct {
	Title        string
	KBArticleIDs []string
	Severity     string
	Downloaded   bool
	Mandatory    bool
	Categories   []string
}

// Searcher queries the Windows Update Agent.
type Searcher interface {
	// Pending runs an offline search against the local update cache.
	Pending(ctx context.Context) ([]Update, error)
}
