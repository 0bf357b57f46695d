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

package wmi

import (
	"context"
	"errors"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/variant"
)

const (
	sFalse            = 0x00000001
	eAccessDenied     = 0x80070005
	wbemEAccessDenied = 0x80041003
)

type client struct{}

// New returns a Querier backed by the WMI scripting API.
func New() Querier {
	return client{}
}

// Query connects to namespace, runs query and converts every row. COM is
// initialised on a locked OS thread for the duration of the call.
func (client) Query(ctx context.Context, namespace, query string) ([]variant.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || (oleErr.Code() != ole.S_OK && oleErr.Code() != sFalse) {
			return nil, classify(namespace, query, "failed to initialize COM", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return nil, classify(namespace, query, "failed to create WMI locator", err)
	}
	defer unknown.Release()

	locator, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, classify(namespace, query, "failed to query locator interface", err)
	}
	defer locator.Release()

	serviceRaw, err := oleutil.CallMethod(locator, "ConnectServer", nil, namespace)
	if err != nil {
		return nil, classify(namespace, query, "failed to connect to namespace", err)
	}
	service := serviceRaw.ToIDispatch()
	defer serviceRaw.Clear()

	resultRaw, err := oleutil.CallMethod(service, "ExecQuery", query)
	if err != nil {
		return nil, classify(namespace, query, "failed to execute query", err)
	}
	result := resultRaw.ToIDispatch()
	defer resultRaw.Clear()

	var rows []variant.Record
	err = oleutil.ForEach(result, func(item *ole.VARIANT) error {
		defer item.Clear()
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := readObject(item.ToIDispatch())
		if err != nil {
			return err
		}
		rows = append(rows, rec)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeTimeout, "WMI query cancelled", ctx.Err())
		}
		return nil, classify(namespace, query, "failed to enumerate results", err)
	}
	return rows, nil
}

// readObject converts one SWbemObject into a record through its Properties_
// collection.
func readObject(obj *ole.IDispatch) (variant.Record, error) {
	propsRaw, err := oleutil.GetProperty(obj, "Properties_")
	if err != nil {
		return nil, err
	}
	defer propsRaw.Clear()

	rec := make(variant.Record)
	err = oleutil.ForEach(propsRaw.ToIDispatch(), func(p *ole.VARIANT) error {
		defer p.Clear()
		prop := p.ToIDispatch()

		nameRaw, err := oleutil.GetProperty(prop, "Name")
		if err != nil {
			return err
		}
		name := nameRaw.ToString()
		nameRaw.Clear()

		var cimType int32
		if ctRaw, err := oleutil.GetProperty(prop, "CIMType"); err == nil {
			if n, ok := ctRaw.Value().(int32); ok {
				cimType = n
			}
			ctRaw.Clear()
		}

		valRaw, err := oleutil.GetProperty(prop, "Value")
		if err != nil {
			return err
		}
		rec[name] = retag(toValue(valRaw), cimType)
		valRaw.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func toValue(v *ole.VARIANT) variant.Value {
	if v.VT&ole.VT_ARRAY != 0 {
		arr := v.ToArray()
		if arr == nil {
			return variant.Null()
		}
		return variant.FromAny(arr.ToValueArray())
	}
	switch v.VT {
	case ole.VT_EMPTY, ole.VT_NULL:
		return variant.Null()
	case ole.VT_DISPATCH, ole.VT_UNKNOWN:
		// Embedded objects are not flattened.
		return variant.Null()
	}
	return variant.FromAny(v.Value())
}

// classify maps COM failures onto the error taxonomy.
func classify(namespace, query, msg string, err error) error {
	ctx := map[string]any{"namespace": namespace, "query": query}

	var oleErr *ole.OleError
	if errors.As(err, &oleErr) {
		switch oleErr.Code() {
		case eAccessDenied, wbemEAccessDenied:
			return cerrors.WrapWithContext(cerrors.ErrCodePrivilegeInsufficient, msg, err, ctx)
		}
	}
	return cerrors.WrapWithContext(cerrors.ErrCodeSourceUnavailable, msg, err, ctx)
}
