// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
package image

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ghani-1977/sh4-apps/pkg/copro"
	"github.com/ghani-1977/sh4-apps/pkg/log"
)

// upper bound for the name table; real images carry a few hundred bytes
const MaxNameTable = 64 << 10

var ENoName = errors.New("fewer names than sections")

// ResolveNames reads size bytes at src and names t.Sections in order. The
// first byte is a marker and is skipped; each name is NUL terminated, except
// possibly the last, which ends with the table.
//
// Surplus names are logged and ignored. Too few names is a FormatError, as a
// section without a name cannot be told apart from .boot.
func ResolveNames(r io.ReadSeeker, t *Table, src, size uint32) error {
	const op = "read name table"
	if size > MaxNameTable {
		return copro.Formatf(op, "size 0x%x exceeds 0x%x", size, MaxNameTable)
	}
	if _, err := r.Seek(int64(src), io.SeekStart); err != nil {
		return copro.Formatf(op, "seek 0x%08x: %w", src, err)
	}
	blob := make([]byte, size)
	if n, err := io.ReadFull(r, blob); err != nil {
		return shortRead(op, len(blob), n, err)
	}
	if len(blob) > 0 {
		blob = blob[1:]
	}
	idx := 0
	for ; len(blob) > 0; idx++ {
		name := blob
		blob = nil
		if end := bytes.IndexByte(name, 0); end >= 0 {
			name, blob = name[:end], name[end+1:]
		}
		if idx >= len(t.Sections) {
			log.Logf("name table: ignoring surplus name %q", name)
			continue
		}
		t.Sections[idx].Name = string(name)
		log.Debugf("index ID %2d: %s", t.Sections[idx].ID, name)
	}
	if idx < len(t.Sections) {
		return &copro.FormatError{Op: op, Err: fmt.Errorf("%w: %d names for %d sections", ENoName, idx, len(t.Sections))}
	}
	return nil
}
