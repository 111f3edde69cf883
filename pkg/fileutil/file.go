// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
// Package fileutil sniffs file content by its leading magic bytes.
package fileutil

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"

	"github.com/ghani-1977/sh4-apps/pkg/log"
)

var (
	xzId  = [6]byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00} // fd 37 7a 58 5a 00 -> xz archive
	elfId = [4]byte{0x7f, 'E', 'L', 'F'}
)

//return n bytes from beginning of file
func ReadHeader(fname string, n int64) (head []byte, err error) {
	f, err := os.Open(fname)
	if err != nil {
		return
	}
	defer f.Close()
	head, err = ioutil.ReadAll(io.LimitReader(f, n))
	if err == nil && int64(len(head)) < n {
		return nil, io.ErrUnexpectedEOF
	}
	return
}

//checks for XZ header
func IsXZ(fname string) bool { return hasMagic(fname, xzId[:]) }

//checks for ELF header
func IsELF(fname string) bool { return hasMagic(fname, elfId[:]) }

func hasMagic(fname string, magic []byte) bool {
	head, err := ReadHeader(fname, int64(len(magic)))
	if err != nil {
		log.Logf("failed to read head bytes from %s: %s", fname, err)
		return false
	}
	return bytes.Equal(head, magic)
}
