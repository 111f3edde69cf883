// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"fmt"
	"io"
	"os"

	"github.com/ghani-1977/sh4-apps/pkg/log/flags"
)

// consoleLog prints "[prefix] message" lines, the format the box's init
// scripts grep for.
type consoleLog struct {
	w     io.Writer
	flags flags.Flag
	debug bool
	next  StackableLogger
}

var _ StackableLogger = (*consoleLog)(nil)

// Adds a console log writing to stderr. Flags select which entries print:
// flags.NA for everything, flags.EndUser for Msgf only. Debug entries print
// only if debug is true.
func AddConsoleLog(f flags.Flag, debug bool) error {
	return AddWriterLog(os.Stderr, f, debug)
}

// Like AddConsoleLog, but to an arbitrary writer.
func AddWriterLog(w io.Writer, f flags.Flag, debug bool) error {
	return AddLogger(&consoleLog{w: w, flags: f, debug: debug}, true)
}

func (l *consoleLog) AddEntry(e LogEntry) {
	if l.wants(e.Flags) {
		fmt.Fprintf(l.w, "[%s] %s\n", GetPrefix(), e.Text())
	}
	if l.next != nil {
		l.next.AddEntry(e)
	}
}

func (l *consoleLog) wants(f flags.Flag) bool {
	if f&flags.Debug != 0 {
		return l.debug
	}
	if f&flags.Fatal != 0 {
		return true
	}
	return l.flags == flags.NA || f&l.flags != 0
}

func (l *consoleLog) ForwardTo(sl StackableLogger) {
	if l.next != nil && sl != nil {
		panic("next already set")
	}
	l.next = sl
}

const ConsoleLogIdent = "consoleLog"

func (*consoleLog) Ident() string           { return ConsoleLogIdent }
func (l *consoleLog) Next() StackableLogger { return l.next }

func (l *consoleLog) Finalize() {
	if l.next != nil {
		l.next.Finalize()
	}
}
