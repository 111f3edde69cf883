// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
// Package coproc drives the st231 coprocessor character devices
// (/dev/st231-0, /dev/st231-1). Memory is written with seek+write on the
// device; properties and start go through ioctls.
package coproc

import (
	"bytes"
	"os"
	"unsafe"

	"github.com/ghani-1977/sh4-apps/pkg/copro"
	"github.com/ghani-1977/sh4-apps/pkg/hw/ioctl"
)

const iocType = 'l'

var (
	// STCOP_START takes the entry point by value, though declared as _IOR
	reqStart = ioctl.IOR(iocType, 0, unsafe.Sizeof(uint32(0)))
	// STCOP_GET_PROPERTIES is declared with a pointer type, so its size field
	// is the pointer size
	reqProperties = ioctl.IOR(iocType, 4, unsafe.Sizeof(uintptr(0)))
)

// cop_properties_t; unsigned long is uintptr-sized on every supported arch
type properties struct {
	name       [16]byte
	flags      uint32
	ramStart   uintptr
	ramSize    uint32
	cpRAMStart uintptr
}

type Dev struct {
	f    *os.File
	Path string
}

// Open opens the coprocessor device read/write.
func Open(path string) (*Dev, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, &copro.DeviceError{Op: "open " + path, Err: err}
	}
	return &Dev{f: f, Path: path}, nil
}

func (d *Dev) Fd() uintptr { return d.f.Fd() }

// Properties queries the driver for the coprocessor memory region.
func (d *Dev) Properties() (copro.Properties, error) {
	var p properties
	if err := ioctl.Ptr(d, reqProperties, unsafe.Pointer(&p)); err != nil {
		return copro.Properties{}, &copro.DeviceError{Op: "STCOP_GET_PROPERTIES", Err: err}
	}
	return p.export(), nil
}

func (p *properties) export() copro.Properties {
	name := p.name[:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return copro.Properties{
		Name:       string(name),
		Flags:      p.flags,
		RAMStart:   uint64(p.ramStart),
		RAMSize:    p.ramSize,
		CPRAMStart: uint64(p.cpRAMStart),
	}
}

// Start begins execution at entry. The image must already be in place.
func (d *Dev) Start(entry uint32) error {
	if err := ioctl.Val(d, reqStart, uintptr(entry)); err != nil {
		return &copro.DeviceError{Op: "STCOP_START", Err: err}
	}
	return nil
}

func (d *Dev) Seek(off int64, whence int) (int64, error) { return d.f.Seek(off, whence) }
func (d *Dev) Write(b []byte) (int, error)                { return d.f.Write(b) }

// Close is safe to call more than once.
func (d *Dev) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}
