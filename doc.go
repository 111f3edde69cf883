// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
// Subpackages contain the coprocessor loader for sh4 set-top boxes and the
// pieces it is built from.
//
// The box's main cpu boots Linux; audio and video decoding run on st231
// coprocessors that have no storage of their own. At boot, ustslave reads a
// section image from the root filesystem, copies each loadable section into
// coprocessor memory through the st coprocessor character device and starts
// the coprocessor at the image's entry point:
//
//    - pkg/copro/image: image header, section table and section names.
//    - pkg/copro/load: copies sections, relocates .boot, starts the coprocessor.
//    - pkg/hw/coproc: the character device and its ioctls.
//    - pkg/fileutil/kver: which driver generation the running kernel has.
//    - pkg/log: logging to memory, console, file and (pkg/hw/kmsg) dmesg.
//
// Use `mage` to build the host and target binaries; see build/build.go.
//
package sh4apps
