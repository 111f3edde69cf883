// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
//Package ioctl builds request codes and issues ioctls against device files.
package ioctl

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

/*
Request layout (asm-generic/ioctl.h, shared by sh, arm, x86):

 bits   meaning
 31-30  direction: 00 none, 01 write, 10 read, 11 read/write
 29-16  size of the argument
 15-8   driver type character
  7-0   function number
*/
const (
	nrBits   = 8
	typeBits = 8
	sizeBits = 14

	nrShift   = 0
	typeShift = nrShift + nrBits
	sizeShift = typeShift + typeBits
	dirShift  = sizeShift + sizeBits

	dirNone  = 0
	dirWrite = 1
	dirRead  = 2
)

func ioc(dir, typ, nr, size uintptr) uint {
	if size >= 1<<sizeBits {
		panic("ioctl argument too large")
	}
	return uint(dir<<dirShift | typ<<typeShift | nr<<nrShift | size<<sizeShift)
}

// IO is _IO(typ, nr)
func IO(typ byte, nr uint8) uint { return ioc(dirNone, uintptr(typ), uintptr(nr), 0) }

// IOR is _IOR(typ, nr, T) with size = sizeof(T)
func IOR(typ byte, nr uint8, size uintptr) uint {
	return ioc(dirRead, uintptr(typ), uintptr(nr), size)
}

// IOW is _IOW(typ, nr, T)
func IOW(typ byte, nr uint8, size uintptr) uint {
	return ioc(dirWrite, uintptr(typ), uintptr(nr), size)
}

// IOWR is _IOWR(typ, nr, T)
func IOWR(typ byte, nr uint8, size uintptr) uint {
	return ioc(dirRead|dirWrite, uintptr(typ), uintptr(nr), size)
}

type FDer interface {
	Fd() uintptr
}

// Val issues a request whose argument is passed by value.
func Val(f FDer, req uint, arg uintptr) error {
	return ioctl(f.Fd(), uintptr(req), arg)
}

// Ptr issues a request whose argument is a pointer to a struct the driver
// reads or fills.
func Ptr(f FDer, req uint, arg unsafe.Pointer) error {
	//the conversion must happen in the call expression to keep arg alive
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func ioctl(fd, req, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, arg)
	if errno != 0 {
		return errno
	}
	return nil
}
