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

package display

import (
	"context"
	"unsafe"

	"golang.org/x/sys/windows"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
)

const (
	displayDeviceActive = 0x00000001
	enumCurrentSettings = 0xFFFFFFFF
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procEnumDisplayDevices  = user32.NewProc("EnumDisplayDevicesW")
	procEnumDisplaySettings = user32.NewProc("EnumDisplaySettingsW")
)

type displayDevice struct {
	cb           uint32
	deviceName   [32]uint16
	deviceString [128]uint16
	stateFlags   uint32
	deviceID     [128]uint16
	deviceKey    [128]uint16
}

type devMode struct {
	deviceName       [32]uint16
	specVersion      uint16
	driverVersion    uint16
	size             uint16
	driverExtra      uint16
	fields           uint32
	positionX        int32
	positionY        int32
	orientation      uint32
	fixedOutput      uint32
	color            int16
	duplex           int16
	yResolution      int16
	ttOption         int16
	collate          int16
	formName         [32]uint16
	logPixels        uint16
	bitsPerPel       uint32
	pelsWidth        uint32
	pelsHeight       uint32
	displayFlags     uint32
	displayFrequency uint32
	icmMethod        uint32
	icmIntent        uint32
	mediaType        uint32
	ditherType       uint32
	reserved1        uint32
	reserved2        uint32
	panningWidth     uint32
	panningHeight    uint32
}

type enumerator struct{}

// New returns an Enumerator backed by user32.
func New() Enumerator {
	return enumerator{}
}

func (enumerator) ActiveModes(ctx context.Context) ([]Mode, error) {
	if err := procEnumDisplayDevices.Find(); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "user32 display enumeration unavailable", err)
	}

	var modes []Mode
	for i := uint32(0); ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var dev displayDevice
		dev.cb = uint32(unsafe.Sizeof(dev))
		ok, _, _ := procEnumDisplayDevices.Call(0, uintptr(i), uintptr(unsafe.Pointer(&dev)), 0)
		if ok == 0 {
			break
		}
		if dev.stateFlags&displayDeviceActive == 0 {
			continue
		}

		m := Mode{Device: windows.UTF16ToString(dev.deviceName[:])}
		var dm devMode
		dm.size = uint16(unsafe.Sizeof(dm))
		ok, _, _ = procEnumDisplaySettings.Call(
			uintptr(unsafe.Pointer(&dev.deviceName[0])),
			uintptr(enumCurrentSettings),
			uintptr(unsafe.Pointer(&dm)),
		)
		if ok != 0 {
			m.Width = dm.pelsWidth
			m.Height = dm.pelsHeight
			m.RefreshHz = dm.displayFrequency
			m.OK = true
		}
		modes = append(modes, m)
	}
	return modes, nil
}
