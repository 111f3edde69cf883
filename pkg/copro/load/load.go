// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
// Package load copies a parsed image into coprocessor memory and starts it.
package load

import (
	"errors"
	"fmt"
	"io"

	"github.com/ghani-1977/sh4-apps/pkg/copro"
	"github.com/ghani-1977/sh4-apps/pkg/copro/image"
	"github.com/ghani-1977/sh4-apps/pkg/log"
)

// Device is the coprocessor as the loader sees it: memory reached with seek
// and write, plus the two control requests.
type Device interface {
	io.WriteSeeker
	Properties() (copro.Properties, error)
	Start(entry uint32) error
}

// .boot is placed at the first multiple of this past the last section
const BootAlign = 1 << 8

// sections larger than this are refused before allocating a buffer
const MaxSection = 64 << 20

var (
	EDupBoot   = errors.New("more than one .boot section")
	EBelowBase = errors.New("section lies below the coprocessor RAM base")
)

type Loader struct {
	Dev Device
	Src io.ReadSeeker
	// Subtract the coprocessor RAM base (from Dev.Properties) from every
	// destination. Which drivers need this is the caller's call.
	BaseOffset bool

	buf []byte
}

// Copy is one completed section transfer. Dest is the coprocessor address,
// Offset the device offset actually written.
type Copy struct {
	Name   string
	Src    uint32
	Dest   uint32
	Offset int64
	Size   uint32
}

type Result struct {
	Entry  uint32 //header entry, or the relocated .boot address
	Base   uint64 //coprocessor RAM base subtracted from destinations
	Copies []Copy //in the order written; .boot last
	Boot   bool   //a .boot section was relocated
}

// Load copies every loadable section in table order, then places .boot (if
// any) after the last one. The first failure aborts the load; sections
// already written stay written.
func (l *Loader) Load(t *image.Table) (*Result, error) {
	boot, err := findBoot(t)
	if err != nil {
		return nil, err
	}
	res := &Result{Entry: t.Entry}
	if l.BaseOffset {
		p, err := l.Dev.Properties()
		if err != nil {
			return nil, asDevice("get properties", err)
		}
		log.Logf("base address 0x%.8x", p.CPRAMStart)
		res.Base = p.CPRAMStart
	}

	var last *image.Section
	for i := range t.Sections {
		s := &t.Sections[i]
		if !s.Loadable() || s == boot {
			continue
		}
		c, err := l.copy(s, s.Dest, res.Base)
		if err != nil {
			return nil, err
		}
		res.Copies = append(res.Copies, c)
		last = s
	}
	if boot == nil {
		return res, nil
	}

	var end uint64
	if last != nil {
		end = uint64(last.Dest) + uint64(last.Size)
	}
	dest := AlignUp(end, BootAlign)
	if dest > 0xffffffff {
		return nil, copro.Formatf("relocate "+image.BootName, "address 0x%x out of range", dest)
	}
	c, err := l.copy(boot, uint32(dest), res.Base)
	if err != nil {
		return nil, err
	}
	res.Copies = append(res.Copies, c)
	res.Entry = uint32(dest)
	res.Boot = true
	log.Debugf("%s relocated to 0x%08X", image.BootName, dest)
	return res, nil
}

// at most one loadable .boot; checked before anything is written
func findBoot(t *image.Table) (*image.Section, error) {
	var boot *image.Section
	for i := range t.Sections {
		s := &t.Sections[i]
		if !s.Loadable() || !s.IsBoot() {
			continue
		}
		if boot != nil {
			return nil, &copro.FormatError{Op: "find " + image.BootName, Err: EDupBoot}
		}
		boot = s
	}
	return boot, nil
}

// AlignUp rounds v up to a multiple of align, a power of two.
func AlignUp(v, align uint64) uint64 { return (v + align - 1) &^ (align - 1) }

// copy moves one section from the image to dest, relative to base.
func (l *Loader) copy(s *image.Section, dest uint32, base uint64) (Copy, error) {
	c := Copy{Name: s.Name, Src: s.Src, Dest: dest, Size: s.Size}
	if uint64(dest) < base {
		return c, copro.Formatf("place "+s.Name, "%w: 0x%08x < 0x%08x", EBelowBase, dest, base)
	}
	if s.Size > MaxSection {
		return c, copro.Formatf("place "+s.Name, "size 0x%x exceeds 0x%x", s.Size, MaxSection)
	}
	c.Offset = int64(uint64(dest) - base)

	if cap(l.buf) < int(s.Size) {
		l.buf = make([]byte, s.Size)
	}
	buf := l.buf[:s.Size]
	if _, err := l.Src.Seek(int64(s.Src), io.SeekStart); err != nil {
		return c, copro.NewIOError(fmt.Sprintf("seek source 0x%08x for %s", s.Src, s.Name), 0, 0, err)
	}
	if n, err := io.ReadFull(l.Src, buf); err != nil {
		return c, copro.NewIOError("read "+s.Name, len(buf), n, err)
	}
	if _, err := l.Dev.Seek(c.Offset, io.SeekStart); err != nil {
		return c, copro.NewIOError(fmt.Sprintf("seek coprocessor to 0x%x for %s", c.Offset, s.Name), 0, 0, err)
	}
	n, err := l.Dev.Write(buf)
	if err != nil || n != len(buf) {
		return c, copro.NewIOError("write "+s.Name, len(buf), n, err)
	}
	log.Debugf("%-12s 0x%08X -> 0x%08X (+0x%x)", s.Name, s.Src, dest, s.Size)
	return c, nil
}

func asDevice(op string, err error) error {
	if copro.IsDevice(err) {
		return err
	}
	return &copro.DeviceError{Op: op, Err: err}
}
