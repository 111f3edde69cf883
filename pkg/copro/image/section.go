// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
package image

import (
	"fmt"
	"math/bits"
)

type Flag uint32

const (
	SecLoad    Flag = 0x01
	SecNotLoad Flag = 0x08
)

// Section is one record of the section table.
type Section struct {
	ID    int
	Name  string //empty until names are resolved
	Dest  uint32 //address in coprocessor memory
	Src   uint32 //offset in the image file
	Size  uint32
	Align uint32 //informational, never enforced
	Flags Flag
	Aux   uint32 //opaque, carried through
}

// Loadable sections are the only ones copied to the coprocessor.
func (s *Section) Loadable() bool {
	return s.Size > 0 && s.Flags&SecLoad != 0 && s.Flags&SecNotLoad == 0
}

// BootName is the relocatable section placed after everything else.
const BootName = ".boot"

func (s *Section) IsBoot() bool { return s.Name == BootName }

func (s *Section) String() string {
	return fmt.Sprintf("%2d: %30s 0x%08X(- 0x%08X) 0x%08X(- 0x%08X) 0x%08X(%6d) %-5s 0x%04X 0x%04X",
		s.ID, s.Name, s.Dest, uint64(s.Dest)+uint64(s.Size), s.Src, uint64(s.Src)+uint64(s.Size),
		s.Size, s.Size, alignStr(s.Align), uint32(s.Flags), s.Aux)
}

func alignStr(a uint32) string {
	if a != 0 && a&(a-1) == 0 {
		return fmt.Sprintf("2**%d", bits.TrailingZeros32(a))
	}
	return fmt.Sprintf("%#x", a)
}

// Table is the parsed section table of one image. It is owned by the caller
// and handed from stage to stage; nothing about it is global.
type Table struct {
	Entry    uint32 //entry point from the header
	Offset   uint32 //where the table starts in the file
	Sections []Section

	NameOff, NameSize uint32 //name table location, from the terminal record
}

// Find returns the first section with the given name, or nil.
func (t *Table) Find(name string) *Section {
	for i := range t.Sections {
		if t.Sections[i].Name == name {
			return &t.Sections[i]
		}
	}
	return nil
}

// Loadable returns the sections that would be copied, in table order.
func (t *Table) Loadable() []Section {
	var out []Section
	for _, s := range t.Sections {
		if s.Loadable() {
			out = append(out, s)
		}
	}
	return out
}

// Lines renders the loadable sections one per line, for verbose output and
// for --dump.
func (t *Table) Lines() []string {
	var lines []string
	for _, s := range t.Loadable() {
		lines = append(lines, s.String())
	}
	return lines
}
