// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package log

import (
	"os"
	"strings"

	"github.com/ghani-1977/sh4-apps/pkg/log/flags"
)

type FatalFunc func()
type PreFunc func(f string, va ...interface{})

// Actions to take when Fatalf() is called. The event itself is logged
// automatically.
type FailAction struct {
	// Prefix to add to message
	MsgPfx string
	// Runs before Finalize(), while the log is still writable.
	Pre PreFunc
	// Ends the process. Logs are finalized when this runs.
	Terminator FatalFunc
}

var fatalAction = DefaultFatal

func SetFatalAction(act FailAction) { fatalAction = act }

// Default fatal action exits with status 1; init scripts check for it.
var DefaultFatal = FailAction{Terminator: DefaultFatalAction}

func DefaultFatalAction() {
	if strings.HasSuffix(os.Args[0], ".test") {
		panic("generic fatal called from test")
	}
	os.Exit(1)
}

// Like Logf, but does not return. Deferred functions of the caller do not run,
// so release resources before calling it.
func Fatalf(f string, va ...interface{}) {
	logStackMtx.Lock()
	unconfigured := logStack.Next() == nil && logStack.Ident() == MemLogIdent
	logStackMtx.Unlock()
	if unconfigured {
		//no sink yet; at least tell the console
		_ = AddConsoleLog(flags.NA, false)
	}
	FlaggedLogf(flags.Fatal, fatalAction.MsgPfx+f, va...)
	if fatalAction.Pre != nil {
		fatalAction.Pre(fatalAction.MsgPfx+f, va...)
	}
	Finalize()
	fatalAction.Terminator()
}
