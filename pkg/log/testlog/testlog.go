// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
//go:build !release

// Package testlog hijacks the output of pkg/log for tests. Output goes through
// testing.T by default, or into a buffer so a test can check what was logged.
package testlog

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ghani-1977/sh4-apps/pkg/log"
	"github.com/ghani-1977/sh4-apps/pkg/log/flags"
)

// TstLog is a log.StackableLogger. Construct with NewTestLog.
type TstLog struct {
	events        chan log.LogEntry
	t             testing.TB
	Buf           *bytes.Buffer //if non-nil, output goes here instead of t.Log
	MsgCount      int           //calls to log.Msgf()
	LogCount      int           //calls to log.Logf()
	DebugCount    int           //calls to log.Debugf()
	FatalCount    int           //calls to log.Fatalf()
	FatalIsNotErr bool          //if true, do not call t.Errorf() for Fatalf()
	freeze        bool
	stderr        bool //also write to stderr immediately
	mu            sync.RWMutex
	bgWg          sync.WaitGroup
}

// Returns a new TstLog, replacing the log stack. If bufferLog is true, output
// goes to Buf. Do not share one TstLog between tests, and call Freeze when done.
func NewTestLog(t testing.TB, bufferLog, stderr bool) *TstLog {
	tlog := &TstLog{
		events: make(chan log.LogEntry, 1024),
		t:      t,
		stderr: stderr,
	}
	if bufferLog {
		tlog.Buf = new(bytes.Buffer)
	}
	tlog.bgWg.Add(1)
	go tlog.bgProc()
	log.NewLogStack(tlog)
	log.SetFatalAction(log.FailAction{Terminator: func() {}})
	return tlog
}

var _ log.StackableLogger = (*TstLog)(nil)

func (tlog *TstLog) AddEntry(e log.LogEntry) {
	tlog.mu.RLock()
	defer tlog.mu.RUnlock()
	if tlog.freeze {
		return
	}
	tlog.events <- e
}

const TstLogIdent = "tstLog"

func (*TstLog) Ident() string                    { return TstLogIdent }
func (*TstLog) Next() log.StackableLogger        { return nil }
func (*TstLog) Finalize()                        {}
func (*TstLog) ForwardTo(_ log.StackableLogger) {}

// prefix marks the entry kind in Buf; filters key on it.
func prefix(f flags.Flag) string {
	switch {
	case f&flags.Fatal != 0:
		return ">>FATAL()<< "
	case f&flags.EndUser != 0:
		return "MSG:"
	case f&flags.Debug != 0:
		return "DBG:"
	}
	return "LOG:"
}

func (tlog *TstLog) bgProc() {
	defer tlog.bgWg.Done()
	for evt := range tlog.events {
		switch {
		case evt.Flags&flags.Fatal != 0:
			tlog.FatalCount++
		case evt.Flags&flags.EndUser != 0:
			tlog.MsgCount++
		case evt.Flags&flags.Debug != 0:
			tlog.DebugCount++
		default:
			tlog.LogCount++
		}
		line := prefix(evt.Flags) + evt.Text()
		if evt.Flags&flags.Fatal != 0 && !tlog.FatalIsNotErr {
			tlog.t.Errorf("@%s: %s", evt.Time.Format(stampMilli), line)
			continue
		}
		if tlog.stderr {
			fmt.Fprintf(os.Stderr, "@%s: %s\n", evt.Time.Format(stampMilli), line)
		}
		if tlog.Buf != nil {
			tlog.Buf.WriteString(line + "\n")
		} else {
			tlog.t.Logf("@%s: %s", evt.Time.Format(stampMilli), line)
		}
	}
}

const stampMilli = "15:04:05.000"

// Call at end of test to drain the log and restore the default stack.
// Counters and Buf are stable afterwards.
func (tlog *TstLog) Freeze() {
	tlog.mu.Lock()
	if tlog.freeze {
		tlog.mu.Unlock()
		return
	}
	tlog.freeze = true
	close(tlog.events)
	tlog.mu.Unlock()
	tlog.bgWg.Wait()
	log.DefaultLogStack()
	log.SetFatalAction(log.DefaultFatal)
}

// Buffered output so far; freezes the log first.
func (tlog *TstLog) String() string {
	tlog.Freeze()
	if tlog.Buf == nil {
		return ""
	}
	return tlog.Buf.String()
}

// injects a separator line, handy when one test logs several phases
func (tlog *TstLog) Logf(f string, va ...interface{}) {
	tlog.AddEntry(log.LogEntry{Time: time.Now(), Msg: f, Args: va})
}
