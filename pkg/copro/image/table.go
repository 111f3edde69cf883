// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
package image

import (
	"io"

	"github.com/u-root/uio/uio"

	"github.com/ghani-1977/sh4-apps/pkg/copro"
	"github.com/ghani-1977/sh4-apps/pkg/log"
)

// RecordSize is the size of one section table record.
const RecordSize = 40

/*
record layout, all little endian u32

off field
 0  sequence number (ignored)
 4  flags
 8  aux
12  destination address
16  source offset
20  size
24  (2 words, ignored)
32  alignment
36  (ignored)

A record with destination 0 and a non-zero source is the last one: its
source and size locate the name table.
*/
type record struct {
	seq   uint32
	flags Flag
	aux   uint32
	dest  uint32
	src   uint32
	size  uint32
	align uint32
}

func decodeRecord(b []byte) (record, error) {
	var rec record
	l := uio.NewLittleEndianBuffer(b)
	rec.seq = l.Read32()
	rec.flags = Flag(l.Read32())
	rec.aux = l.Read32()
	rec.dest = l.Read32()
	rec.src = l.Read32()
	rec.size = l.Read32()
	l.Consume(8)
	rec.align = l.Read32()
	l.Consume(4)
	return rec, l.FinError()
}

func (r *record) terminal() bool { return r.dest == 0 && r.src != 0 }

func (r *record) section(id int) Section {
	return Section{
		ID:    id,
		Dest:  r.dest,
		Src:   r.src,
		Size:  r.size,
		Align: r.align,
		Flags: r.flags,
		Aux:   r.aux,
	}
}

// ParseTable reads records from h.TableOff until the terminal record, then
// resolves section names from the name table it points to. Records after
// the terminal one are never read.
//
// Every record before the terminal one is kept, loadable or not, since names
// are assigned by position. Section IDs count all of these records, so the
// IDs of loadable sections can have gaps.
func ParseTable(r io.ReadSeeker, h Header) (*Table, error) {
	t := &Table{Entry: h.Entry, Offset: h.TableOff}
	if _, err := r.Seek(int64(h.TableOff), io.SeekStart); err != nil {
		return nil, copro.Formatf("read section table", "seek 0x%08x: %w", h.TableOff, err)
	}
	buf := make([]byte, RecordSize)
	for {
		n, err := io.ReadFull(r, buf)
		if err != nil {
			return nil, shortRead("read section table", RecordSize, n, err)
		}
		rec, err := decodeRecord(buf)
		if err != nil {
			return nil, copro.Formatf("read section table", "record %d: %w", len(t.Sections), err)
		}
		if rec.terminal() {
			t.NameOff, t.NameSize = rec.src, rec.size
			break
		}
		log.Debugf("record %d: dest 0x%08x src 0x%08x size 0x%x flags 0x%x", len(t.Sections), rec.dest, rec.src, rec.size, uint32(rec.flags))
		t.Sections = append(t.Sections, rec.section(len(t.Sections)))
	}
	if err := ResolveNames(r, t, t.NameOff, t.NameSize); err != nil {
		return nil, err
	}
	return t, nil
}

// Parse reads the header and the section table.
func Parse(r io.ReadSeeker) (*Table, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	log.Debugf("entry point is 0x%08X", h.Entry)
	log.Debugf("table address is 0x%08X", h.TableOff)
	return ParseTable(r, h)
}
