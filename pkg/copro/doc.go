// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
/*
Package copro and its subpackages load a sectioned image into a coprocessor's
memory and start it, as ustslave does on the stm2x set-top boxes.

The pipeline is strictly sequential:

	image.Open         pick the reader by file extension (.elf, .elf.xz)
	image.ReadHeader   entry point at 0x18, section table offset at 0x20
	image.ParseTable   40-byte records up to the name-table record
	image.ResolveNames NUL-separated names, assigned in table order
	load.Loader.Load   copy sections, relocate .boot after the last one
	load.Launch        start the coprocessor at the resolved entry

Errors

Every stage aborts on the first error. Errors are one of FormatError,
IOError or DeviceError; each names the failing step and wraps the cause, so
errors.Is works against the underlying sentinel or errno.

Nothing is rolled back: a failed copy can leave the coprocessor partially
loaded. The caller is expected to retry the whole load or fail the boot.
*/
package copro
