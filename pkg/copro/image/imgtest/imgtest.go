// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
//go:build !release

// Package imgtest builds synthetic coprocessor images for tests.
package imgtest

import (
	"bytes"

	"github.com/u-root/uio/uio"
	"github.com/ulikunitz/xz"
)

const (
	HeaderSize = 0x40
	RecordSize = 40

	SecLoad    = 0x01
	SecNotLoad = 0x08
)

type Section struct {
	Name  string
	Flags uint32
	Dest  uint32
	Size  uint32
	Align uint32
	Aux   uint32

	Src uint32 //set by Build
}

// Image describes the file to build. The layout is header, section table at
// TableOff (HeaderSize if zero), section data, name table.
type Image struct {
	Entry    uint32
	TableOff uint32
	Sections []Section

	// extra names appended to the name table
	ExtraNames []string
	// this many names are left off the end of the name table
	DropNames int
	// records placed after the terminal record
	AfterTerminal []Section
}

// Fill is the content Build gives a section: a pattern derived from its
// destination so misplaced copies show up.
func Fill(dest, size uint32) []byte {
	b := make([]byte, size)
	for i := range b {
		b[i] = byte(dest>>8) ^ byte(i*7+1)
	}
	return b
}

// Build lays out the image and returns it. Section Src fields are updated in
// place.
func (im *Image) Build() []byte {
	if im.TableOff == 0 {
		im.TableOff = HeaderSize
	}
	nrec := len(im.Sections) + 1 + len(im.AfterTerminal)
	dataOff := align16(im.TableOff + uint32(nrec*RecordSize))

	var data bytes.Buffer
	for i := range im.Sections {
		s := &im.Sections[i]
		s.Src = dataOff + uint32(data.Len())
		data.Write(Fill(s.Dest, s.Size))
		for data.Len()%4 != 0 {
			data.WriteByte(0)
		}
	}
	nameOff := dataOff + uint32(data.Len())
	names := im.nameTable()

	out := make([]byte, int(nameOff)+len(names))
	hdr := uio.NewLittleEndianBuffer(nil)
	hdr.Write32(im.Entry)
	hdr.Write32(im.TableOff)
	copy(out[0x18:], hdr.Data()[:4])
	copy(out[0x20:], hdr.Data()[4:])

	tbl := uio.NewLittleEndianBuffer(nil)
	seq := uint32(0)
	for _, s := range im.Sections {
		writeRecord(tbl, seq, s)
		seq++
	}
	writeRecord(tbl, seq, Section{Src: nameOff, Size: uint32(len(names)), Align: 1})
	seq++
	for _, s := range im.AfterTerminal {
		writeRecord(tbl, seq, s)
		seq++
	}
	copy(out[im.TableOff:], tbl.Data())
	copy(out[dataOff:], data.Bytes())
	copy(out[nameOff:], names)
	return out
}

// name table: marker byte, then NUL terminated names
func (im *Image) nameTable() []byte {
	var b bytes.Buffer
	b.WriteByte(0)
	n := len(im.Sections) - im.DropNames
	for i := 0; i < n; i++ {
		b.WriteString(im.Sections[i].Name)
		b.WriteByte(0)
	}
	for _, name := range im.ExtraNames {
		b.WriteString(name)
		b.WriteByte(0)
	}
	return b.Bytes()
}

func writeRecord(l *uio.Lexer, seq uint32, s Section) {
	l.Write32(seq)
	l.Write32(s.Flags)
	l.Write32(s.Aux)
	l.Write32(s.Dest)
	l.Write32(s.Src)
	l.Write32(s.Size)
	l.Write32(0xdeadbeef)
	l.Write32(0xdeadbeef)
	l.Write32(s.Align)
	l.Write32(0xdeadbeef)
}

func align16(v uint32) uint32 { return (v + 15) &^ 15 }

// Xz compresses an image the way .elf.xz files are shipped.
func Xz(img []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err = w.Write(img); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RoundTrip is the two-section image used throughout the tests: entry
// 0x1000, table at 0x40, sec1 (16 bytes) and sec2 (32 bytes).
func RoundTrip() *Image {
	return &Image{
		Entry:    0x1000,
		TableOff: 0x40,
		Sections: []Section{
			{Name: "sec1", Flags: SecLoad, Dest: 0x2000, Size: 16, Align: 4},
			{Name: "sec2", Flags: SecLoad, Dest: 0x3000, Size: 32, Align: 8},
		},
	}
}
