// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
package fileutil

import (
	"io/ioutil"
	fp "path/filepath"
	"testing"

	"github.com/ghani-1977/sh4-apps/pkg/log/testlog"
)

func TestMagic(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	dir := t.TempDir()
	for _, td := range []struct {
		name    string
		data    []byte
		xz, elf bool
	}{
		{"xz", []byte{0xfd, '7', 'z', 'X', 'Z', 0, 0, 4}, true, false},
		{"elf", []byte("\x7fELF\x01\x01\x01"), false, true},
		{"short", []byte{0xfd, '7'}, false, false},
		{"empty", nil, false, false},
	} {
		f := fp.Join(dir, td.name)
		if err := ioutil.WriteFile(f, td.data, 0644); err != nil {
			t.Fatal(err)
		}
		if got := IsXZ(f); got != td.xz {
			t.Errorf("%s: IsXZ=%t", td.name, got)
		}
		if got := IsELF(f); got != td.elf {
			t.Errorf("%s: IsELF=%t", td.name, got)
		}
	}
	if IsXZ(fp.Join(dir, "missing")) {
		t.Error("missing file is xz")
	}
	tlog.Freeze()
	//short and empty fail both checks, missing fails one
	if tlog.LogCount != 5 {
		t.Errorf("want 5 read failures logged, got %d", tlog.LogCount)
	}
}
