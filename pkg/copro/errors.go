// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
package copro

import (
	"errors"
	"fmt"
)

// FormatError reports a malformed or truncated image.
type FormatError struct {
	Op  string
	Err error
}

func (e *FormatError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *FormatError) Unwrap() error { return e.Err }

func Formatf(op, f string, va ...interface{}) error {
	return &FormatError{Op: op, Err: fmt.Errorf(f, va...)}
}

// IOError reports a failed seek, read or write, or one that moved fewer bytes
// than asked for. Want and Got are zero for seeks.
type IOError struct {
	Op        string
	Want, Got int
	Err       error
}

var EShort = errors.New("short transfer")

func (e *IOError) Error() string {
	if e.Err == EShort {
		return fmt.Sprintf("%s: %s (%d of %d bytes)", e.Op, e.Err, e.Got, e.Want)
	}
	return e.Op + ": " + e.Err.Error()
}
func (e *IOError) Unwrap() error { return e.Err }

// NewIOError picks the cause: err if set, EShort if the count is off.
func NewIOError(op string, want, got int, err error) error {
	if err == nil {
		err = EShort
	}
	return &IOError{Op: op, Want: want, Got: got, Err: err}
}

// DeviceError reports a control request the driver rejected.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *DeviceError) Unwrap() error { return e.Err }

func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

func IsIO(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

func IsDevice(err error) bool {
	var de *DeviceError
	return errors.As(err, &de)
}
