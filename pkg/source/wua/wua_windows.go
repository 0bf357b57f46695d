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

//go:build windows

package wua

import (
	"context"
	"errors"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
)

const sFalse = 0x00000001

type searcher struct{}

// New returns a Searcher backed by the Microsoft.Update.Session COM object.
func New() Searcher {
	return searcher{}
}

func (searcher) Pending(ctx context.Context) ([]Update, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || (oleErr.Code() != ole.S_OK && oleErr.Code() != sFalse) {
			return nil, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to initialize COM", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("Microsoft.Update.Session")
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to create update session", err)
	}
	defer unknown.Release()

	session, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to query update session", err)
	}
	defer session.Release()

	searcherRaw, err := oleutil.CallMethod(session, "CreateUpdateSearcher")
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to create update searcher", err)
	}
	defer searcherRaw.Clear()
	s := searcherRaw.ToIDispatch()

	if _, err := oleutil.PutProperty(s, "Online", false); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to select offline search", err)
	}

	resultRaw, err := oleutil.CallMethod(s, "Search", PendingCriteria)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodePrivilegeInsufficient, "update search failed", err)
	}
	defer resultRaw.Clear()

	updatesRaw, err := oleutil.GetProperty(resultRaw.ToIDispatch(), "Updates")
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to read search result", err)
	}
	defer updatesRaw.Clear()
	updates := updatesRaw.ToIDispatch()

	n, err := count(updates)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to count updates", err)
	}

	items := make([]Update, 0, n)
	for i := 0; i < n; i++ {
		itemRaw, err := oleutil.GetProperty(updates, "Item", i)
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to read update", err)
		}
		items = append(items, readUpdate(itemRaw.ToIDispatch()))
		itemRaw.Clear()
	}
	return items, nil
}

func readUpdate(u *ole.IDispatch) Update {
	out := Update{
		Title:      stringProp(u, "Title"),
		Severity:   stringProp(u, "MsrcSeverity"),
		Downloaded: boolProp(u, "IsDownloaded"),
		Mandatory:  boolProp(u, "IsMandatory"),
	}

	for _, kb := range collection(u, "KBArticleIDs", func(v *ole.VARIANT) string { return v.ToString() }) {
		out.KBArticleIDs = append(out.KBArticleIDs, "KB"+kb)
	}
	out.Categories = collection(u, "Categories", func(v *ole.VARIANT) string {
		return stringProp(v.ToIDispatch(), "Name")
	})
	return out
}

func count(coll *ole.IDispatch) (int, error) {
	v, err := oleutil.GetProperty(coll, "Count")
	if err != nil {
		return 0, err
	}
	defer v.Clear()
	return int(v.Val), nil
}

func collection(u *ole.IDispatch, name string, conv func(*ole.VARIANT) string) []string {
	collRaw, err := oleutil.GetProperty(u, name)
	if err != nil {
		return nil
	}
	defer collRaw.Clear()
	coll := collRaw.ToIDispatch()

	n, err := count(coll)
	if err != nil {
		return nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		item, err := oleutil.GetProperty(coll, "Item", i)
		if err != nil {
			continue
		}
		if s := conv(item); s != "" {
			out = append(out, s)
		}
		item.Clear()
	}
	return out
}

func stringProp(d *ole.IDispatch, name string) string {
	if d == nil {
		return ""
	}
	v, err := oleutil.GetProperty(d, name)
	if err != nil {
		return ""
	}
	defer v.Clear()
	return v.ToString()
}

func boolProp(d *ole.IDispatch, name string) bool {
	v, err := oleutil.GetProperty(d, name)
	if err != nil {
		return false
	}
	defer v.Clear()
	b, _ := v.Value().(bool)
	return b
}
