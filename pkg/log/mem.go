// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

// memLog keeps entries in memory and displays nothing. It is the bottom of a
// fresh stack so that sinks attached later see everything logged before them.
type memLog struct {
	entries []LogEntry
	next    StackableLogger
}

var _ StackableLogger = (*memLog)(nil)

// Adds a memLog to the stack. Only needed after FlushMemLog, as a fresh stack
// already has one.
func AddMemLog() error { return AddLogger(&memLog{}, false) }

func (ml *memLog) AddEntry(e LogEntry) {
	ml.entries = append(ml.entries, e)
	if ml.next != nil {
		ml.next.AddEntry(e)
	}
}

func (ml *memLog) ForwardTo(sl StackableLogger) {
	if ml.next != nil && sl != nil {
		panic("next already set")
	}
	ml.next = sl
}

const MemLogIdent = "memLog"

func (ml *memLog) Ident() string         { return MemLogIdent }
func (ml *memLog) Next() StackableLogger { return ml.next }

func (ml *memLog) Finalize() {
	ml.entries = nil
	if ml.next != nil {
		ml.next.Finalize()
	}
}

func (ml *memLog) Entries() []LogEntry { return ml.entries }

// All entries logged so far, if a memLog is in the stack.
func StoredEntries() []LogEntry {
	logStackMtx.Lock()
	defer logStackMtx.Unlock()
	ml, ok := FindInStack(MemLogIdent).(*memLog)
	if !ok {
		return nil
	}
	out := make([]LogEntry, len(ml.entries))
	copy(out, ml.entries)
	return out
}

// Drop the memLog once real sinks are attached, so a long run does not keep
// every entry around.
func FlushMemLog() { RemoveLogger(MemLogIdent) }
