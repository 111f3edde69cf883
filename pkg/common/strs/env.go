// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
// Package strs names the environment variables the loader reads.
package strs

func EnvPrefix() string { return "USTSLAVE_" }

// non-empty enables verbose output
func VerboseEnv() string { return EnvPrefix() + "VERBOSE" }

// auto, yes or no; see the --cop-base option
func CopBaseEnv() string { return EnvPrefix() + "COP_BASE" }

// file to append the log to
func LogEnv() string { return EnvPrefix() + "LOG" }

// non-empty copies status lines into the kernel log
func KmsgEnv() string { return EnvPrefix() + "KMSG" }
