// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"fmt"
	"sync"
	"time"

	"github.com/ghani-1977/sh4-apps/pkg/log/flags"
)

// A logger which can be chained with others, each adding a sink. Normal
// logging goes through the package functions (Logf, Msgf, Debugf, Fatalf);
// only sink implementations need this interface.
type StackableLogger interface {
	// Add an entry to the log. Must call the same method on the next log in the
	// stack (if not nil).
	AddEntry(e LogEntry)

	// Chain this logger to sl. Setting a second, non-nil next logger is a bug
	// and panics.
	ForwardTo(sl StackableLogger)

	// Identifies the type of sink; at most one of each type is in the stack.
	Ident() string
	// Returns next StackableLogger or nil
	Next() StackableLogger
	// Flushes and releases resources, then calls Finalize on the next log.
	Finalize()
}

// Top of the stack. Guarded by logStackMtx.
var logStack StackableLogger = &memLog{}

var logStackMtx sync.Mutex

type stackErr struct {
	Id string
}

func (se *stackErr) Error() string {
	return fmt.Sprintf("duplicate logger %s in stack", se.Id)
}

// Flushes data, closes files, etc
func Finalize() {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	logStack.Finalize()
}

// Restores the log stack to a lone memLog, finalizing what was there.
func DefaultLogStack() { NewLogStack(&memLog{}) }

// Finalizes existing logger(s), then makes newLog the only logger.
func NewLogStack(newLog StackableLogger) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	if logStack != nil {
		logStack.Finalize()
	}
	logStack = newLog
	ClearAttrs()
}

// Add a logger to the top of the stack. If addPrevious is true, entries held in
// a memLog are replayed into sl first. Fails only if a logger with the same
// Ident is already present.
func AddLogger(sl StackableLogger, addPrevious bool) error {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	if err := checkDup(sl, logStack); err != nil {
		return err
	}
	if addPrevious {
		addPreviousEvents(sl)
	}
	sl.ForwardTo(logStack)
	logStack = sl
	return nil
}

func checkDup(newLogger, sl StackableLogger) error {
	for l := sl; l != nil; l = l.Next() {
		if l.Ident() == newLogger.Ident() {
			return &stackErr{Id: l.Ident()}
		}
	}
	return nil
}

// Remove the logger with the given id from the stack, finalizing only it.
func RemoveLogger(id string) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	var prev StackableLogger
	for l := logStack; l != nil; l = l.Next() {
		if l.Ident() != id {
			prev = l
			continue
		}
		next := l.Next()
		l.ForwardTo(nil)
		l.Finalize()
		if prev == nil {
			logStack = next
			if logStack == nil {
				logStack = &memLog{}
			}
		} else {
			prev.ForwardTo(nil)
			prev.ForwardTo(next)
		}
		return
	}
}

// LogEntry is the record passed down the stack.
type LogEntry struct {
	Time  time.Time `json:"t"`
	Msg   string
	Args  []interface{} `json:",omitempty"`
	Flags flags.Flag    `json:",omitempty"`
}

// Backend of Logf(), Msgf(), Debugf(), Fatalf().
func FlaggedLogf(opts flags.Flag, f string, va ...interface{}) {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	logStack.AddEntry(LogEntry{
		Time:  time.Now(),
		Flags: opts,
		Msg:   f,
		Args:  va,
	})
}

// Text is the formatted message without any decoration.
func (le *LogEntry) Text() string { return fmt.Sprintf(le.Msg, le.Args...) }

// String renders the entry for files and dumps: a marker for the kind of
// entry, the timestamp, then the message.
func (le *LogEntry) String() string {
	var div string
	switch {
	case le.Flags&flags.Fatal != 0:
		div = "!! "
	case le.Flags&flags.EndUser != 0:
		div = "-- "
	case le.Flags&flags.Debug != 0:
		div = ".. "
	case le.Flags == 0:
		div = "*- "
	default:
		div = "?? "
	}
	return div + le.Time.Format(TimestampLayout) + " " + div + le.Text()
}

// Replays memLog content into newlog. Caller holds logStackMtx.
func addPreviousEvents(newlog StackableLogger) {
	if _, isMem := newlog.(*memLog); isMem {
		return
	}
	if ml, ok := FindInStack(MemLogIdent).(*memLog); ok {
		for _, e := range ml.Entries() {
			newlog.AddEntry(e)
		}
	}
}

// Return true if a log in the stack matches given id
func InStack(id string) bool {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	return FindInStack(id) != nil
}

// Return StackableLogger matching id, or nil. Caller must hold logStackMtx
// unless nothing else can touch the stack (tests).
func FindInStack(id string) StackableLogger {
	for l := logStack; l != nil; l = l.Next() {
		if l.Ident() == id {
			return l
		}
	}
	return nil
}
