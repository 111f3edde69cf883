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
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/ghani-1977/sh4-apps/pkg/copro"
	"github.com/ghani-1977/sh4-apps/pkg/fileutil"
	"github.com/ghani-1977/sh4-apps/pkg/log"
)

// recognized extensions
const (
	ExtELF   = ".elf"
	ExtELFXz = ".elf.xz"
)

// decompressed images larger than this are rejected
const MaxImageSize = 64 << 20

var EExtension = errors.New("not an .elf or .elf.xz file")

// Source is an opened image. Compressed images are expanded into memory, so
// every Source can seek.
type Source struct {
	io.ReadSeeker
	Path       string
	Compressed bool
	f          *os.File
}

// Open checks the extension and opens the image. A .elf holding xz data is
// decompressed as if it were named .elf.xz. Close the Source when done.
func Open(path string) (*Source, error) {
	compressed := strings.HasSuffix(path, ExtELFXz)
	if !compressed && !strings.HasSuffix(path, ExtELF) {
		return nil, &copro.FormatError{Op: "open " + path, Err: EExtension}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, copro.NewIOError("open "+path, 0, 0, err)
	}
	if !compressed && fileutil.IsXZ(path) {
		log.Logf("%s: xz data in a %s file, decompressing", path, ExtELF)
		compressed = true
	}
	if !compressed && !fileutil.IsELF(path) {
		log.Logf("%s: no ELF magic, trusting the section table", path)
	}
	if !compressed {
		return &Source{ReadSeeker: f, Path: path, f: f}, nil
	}
	defer f.Close()
	data, err := decompress(f)
	if err != nil {
		return nil, err
	}
	return &Source{ReadSeeker: bytes.NewReader(data), Path: path, Compressed: true}, nil
}

func decompress(r io.Reader) ([]byte, error) {
	const op = "decompress"
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, &copro.FormatError{Op: op, Err: err}
	}
	data, err := io.ReadAll(io.LimitReader(xr, MaxImageSize+1))
	if err != nil {
		return nil, &copro.FormatError{Op: op, Err: err}
	}
	if len(data) > MaxImageSize {
		return nil, copro.Formatf(op, "image exceeds %d bytes", MaxImageSize)
	}
	return data, nil
}

// Close releases the file, if any. Safe to call more than once.
func (s *Source) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
