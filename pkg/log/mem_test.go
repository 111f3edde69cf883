// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
package log_test

// package log_test, not log: ensures enough is exported to test from other
// packages.

import (
	"testing"
	"time"

	"github.com/ghani-1977/sh4-apps/pkg/log"
	"github.com/ghani-1977/sh4-apps/pkg/log/flags"
)

func TestMemLog(t *testing.T) {
	log.DefaultLogStack()
	defer log.DefaultLogStack()
	T, err := time.Parse("2006", "1999")
	if err != nil {
		t.Fatal(err)
	}
	e := log.LogEntry{
		Time:  T,
		Msg:   "section %s",
		Args:  []interface{}{".text"},
		Flags: flags.EndUser,
	}
	log.Stack().AddEntry(e)
	entries := log.StoredEntries()
	if len(entries) != 1 {
		t.Fatal("wrong entries", entries)
	}
	want := "-- 19990101_000000 -- section .text"
	got := entries[0].String()
	if want != got {
		t.Errorf("mem:\nwant %q\ngot  %q", want, got)
	}
}
