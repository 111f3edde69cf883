// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
package image

import (
	"errors"
	"io"

	"github.com/u-root/uio/uio"

	"github.com/ghani-1977/sh4-apps/pkg/copro"
)

// fixed header offsets
const (
	EntryOff    = 0x18
	TablePtrOff = 0x20
)

var ETruncated = errors.New("truncated")

type Header struct {
	Entry    uint32
	TableOff uint32
}

// ReadHeader reads the entry point and the section table offset.
func ReadHeader(r io.ReadSeeker) (Header, error) {
	var h Header
	var err error
	h.Entry, err = readU32(r, EntryOff, "entry point")
	if err != nil {
		return Header{}, err
	}
	h.TableOff, err = readU32(r, TablePtrOff, "table address")
	if err != nil {
		return Header{}, err
	}
	return h, nil
}

func readU32(r io.ReadSeeker, off int64, what string) (uint32, error) {
	var b [4]byte
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return 0, copro.Formatf("read "+what, "seek 0x%02x: %w", off, err)
	}
	n, err := io.ReadFull(r, b[:])
	if err != nil {
		return 0, shortRead("read "+what, len(b), n, err)
	}
	return uio.NewLittleEndianBuffer(b[:]).Read32(), nil
}

// EOF means the image ends early, a format problem. Anything else came from
// the file itself.
func shortRead(op string, want, got int, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return copro.Formatf(op, "%w (%d of %d bytes)", ETruncated, got, want)
	}
	return copro.NewIOError(op, want, got, err)
}
