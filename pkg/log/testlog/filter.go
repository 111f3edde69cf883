// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
//go:build !release

package testlog

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// returns true if a line should be kept
type LineFilterer func(in string) bool

func FilterMsg() LineFilterer   { return FilterPfx("MSG:") }
func FilterLog() LineFilterer   { return FilterPfx("LOG:") }
func FilterDebug() LineFilterer { return FilterPfx("DBG:") }

func FilterPfx(pfx string) LineFilterer {
	return func(in string) bool { return strings.HasPrefix(in, pfx) }
}

// panics on a bad expression; callers pass literals
func FilterRe(re string) LineFilterer {
	rx := regexp.MustCompile(re)
	return rx.MatchString
}

func FilterAnd(f1, f2 LineFilterer) LineFilterer {
	return func(in string) bool { return f1(in) && f2(in) }
}

func FilterOr(f1, f2 LineFilterer) LineFilterer {
	return func(in string) bool { return f1(in) || f2(in) }
}

// Freezes the log, then returns buffered lines accepted by lf. Buf is left
// untouched so several filters can run over the same output.
func (tlog *TstLog) Filter(lf LineFilterer) []string {
	tlog.Freeze()
	if tlog.Buf == nil {
		tlog.t.Error("nil buffer")
		return nil
	}
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(tlog.Buf.Bytes()))
	for scanner.Scan() {
		if lf(scanner.Text()) {
			lines = append(lines, scanner.Text())
		}
	}
	return lines
}

// Filters the buffer and compares the result line by line with want.
func (tlog *TstLog) LinesMustMatch(lf LineFilterer, want []string) bool {
	tlog.t.Helper()
	got := tlog.Filter(lf)
	ok := len(got) == len(want)
	for i := 0; ok && i < len(got); i++ {
		ok = got[i] == want[i]
	}
	if !ok {
		tlog.t.Errorf("log mismatch\n got %q\nwant %q", got, want)
	}
	return ok
}

// Fails the test unless some buffered line contains substr.
func (tlog *TstLog) MustContain(substr string) {
	tlog.t.Helper()
	if len(tlog.Filter(func(in string) bool { return strings.Contains(in, substr) })) == 0 {
		tlog.t.Errorf("no log line contains %q; log:\n%s", substr, tlog.Buf.String())
	}
}
