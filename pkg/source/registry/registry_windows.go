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

package registry

import (
	"encoding/binary"
	"errors"

	"golang.org/x/sys/windows"
	winreg "golang.org/x/sys/windows/registry"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
)

const access = winreg.QUERY_VALUE | winreg.ENUMERATE_SUB_KEYS

type store struct{}

// New returns a Store reading the local registry.
func New() Store {
	return store{}
}

func (store) Open(root Root, path string) (Key, error) {
	base := winreg.LOCAL_MACHINE
	if root == CurrentUser {
		base = winreg.CURRENT_USER
	}
	k, err := winreg.OpenKey(base, path, access)
	if err != nil {
		return nil, mapErr(err, root.String()+`\`+path)
	}
	return key{k: k, path: root.String() + `\` + path}, nil
}

type key struct {
	k    winreg.Key
	path string
}

func (k key) String(name string) (string, error) {
	v, _, err := k.k.GetStringValue(name)
	if err != nil {
		return "", mapValueErr(err, k.path+`\`+name)
	}
	return v, nil
}

func (k key) Integer(name string) (uint64, error) {
	v, _, err := k.k.GetIntegerValue(name)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, winreg.ErrUnexpectedType) {
		return 0, mapValueErr(err, k.path+`\`+name)
	}
	b, _, berr := k.k.GetBinaryValue(name)
	if berr != nil || len(b) == 0 || len(b) > 8 {
		return 0, mapValueErr(err, k.path+`\`+name)
	}
	var buf [8]byte
	copy(buf[:], b)
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (k key) SubKeyNames() ([]string, error) {
	names, err := k.k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, mapErr(err, k.path)
	}
	return names, nil
}

func (k key) ValueNames() ([]string, error) {
	names, err := k.k.ReadValueNames(-1)
	if err != nil {
		return nil, mapErr(err, k.path)
	}
	return names, nil
}

func (k key) OpenSubKey(path string) (Key, error) {
	sub, err := winreg.OpenKey(k.k, path, access)
	if err != nil {
		return nil, mapErr(err, k.path+`\`+path)
	}
	return key{k: sub, path: k.path + `\` + path}, nil
}

func (k key) Close() error {
	return k.k.Close()
}

func mapErr(err error, path string) error {
	return mapErrCode(err, path, cerrors.ErrCodeSourceUnavailable)
}

func mapValueErr(err error, path string) error {
	return mapErrCode(err, path, cerrors.ErrCodeFieldMissing)
}

// mapErrCode maps registry errors onto the error taxonomy. missing is the
// code used when the key or value does not exist.
func mapErrCode(err error, path string, missing cerrors.ErrorCode) error {
	switch {
	case errors.Is(err, winreg.ErrNotExist):
		return cerrors.WrapWithContext(missing, "registry path not found",
			ErrNotExist, map[string]any{"path": path})
	case errors.Is(err, winreg.ErrUnexpectedType):
		return cerrors.WrapWithContext(cerrors.ErrCodeFieldTypeMismatch, "registry value has unexpected type",
			ErrUnexpectedType, map[string]any{"path": path})
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return cerrors.WrapWithContext(cerrors.ErrCodePrivilegeInsufficient, "registry access denied",
			err, map[string]any{"path": path})
	default:
		return cerrors.WrapWithContext(cerrors.ErrCodeSourceUnavailable, "registry read failed",
			err, map[string]any{"path": path})
	}
}
