// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package log is the logging mechanism shared by the box utilities. Entries can
// go to one or more sinks: memory, the console, a file.
//
// Until a sink is attached, entries are retained in memory so they can be
// re-played into sinks added later on. This matters for the loader, which logs
// while parsing its arguments but only knows where the log goes afterwards.
package log

import "github.com/ghani-1977/sh4-apps/pkg/log/flags"

// tags console and kmsg lines
const logPrefix = "ustslave"

func GetPrefix() string { return logPrefix }

// Msgf is for short status lines the person at the console cares about: what
// is being loaded, whether the coprocessor started.
func Msgf(f string, va ...interface{}) { FlaggedLogf(flags.EndUser, f, va...) }

// Logf is for technical detail. Always recorded, shown on the console unless the
// console only accepts EndUser entries.
func Logf(f string, va ...interface{}) { FlaggedLogf(flags.NA, f, va...) }

// Debugf is for per-section and per-record detail. File sinks always store it;
// the console only prints it in verbose mode.
func Debugf(f string, va ...interface{}) { FlaggedLogf(flags.Debug, f, va...) }
