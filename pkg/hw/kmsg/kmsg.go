// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
// Package kmsg adds the kernel ring buffer as a log sink. On a box the loader
// runs from init scripts long before any console is watched, and dmesg is
// where its status ends up. Opening /dev/kmsg requires root.
package kmsg

import (
	"fmt"
	"io"
	"os"

	"github.com/ghani-1977/sh4-apps/pkg/log"
	"github.com/ghani-1977/sh4-apps/pkg/log/flags"
)

type Priority uint

//Convert facility/severity into priority
func Prio(f Facility, s Severity) Priority {
	return Priority(f*8) + Priority(s)
}

//Facility values a la RFC5424. Incomplete list.
type Facility uint

const (
	FacKern   Facility = 0
	FacUser   Facility = 1
	FacDaemon Facility = 3
	FacLocal0 Facility = 16
)

//Severity values a la RFC5424. Incomplete list.
type Severity uint

const (
	SevEmerg Severity = iota
	SevAlert
	SevCrit
	SevError
	SevWarn
	SevNotice
	SevInfo
	SevDebug
)

const Path = "/dev/kmsg"

// kmsgLog writes user-facing and fatal entries, one record per write.
type kmsgLog struct {
	w    io.WriteCloser
	fac  Facility
	next log.StackableLogger
}

var _ log.StackableLogger = (*kmsgLog)(nil)

// AddLog opens /dev/kmsg and adds it to the log stack.
func AddLog(f Facility) error {
	if f == FacKern {
		return fmt.Errorf("cannot use facility %d from userspace", f)
	}
	kmsg, err := os.OpenFile(Path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	if err = AddWriterLog(kmsg, f); err != nil {
		kmsg.Close()
	}
	return err
}

// Like AddLog, but to an arbitrary writer, which is closed on Finalize.
func AddWriterLog(w io.WriteCloser, f Facility) error {
	return log.AddLogger(&kmsgLog{w: w, fac: f}, false)
}

func (k *kmsgLog) AddEntry(e log.LogEntry) {
	if k.w != nil {
		switch {
		case e.Flags&flags.Fatal != 0:
			k.write(SevError, e)
		case e.Flags&flags.EndUser != 0:
			k.write(SevNotice, e)
		}
	}
	if k.next != nil {
		k.next.AddEntry(e)
	}
}

func (k *kmsgLog) write(s Severity, e log.LogEntry) {
	fmt.Fprintf(k.w, "<%d>%s: %s", Prio(k.fac, s), log.GetPrefix(), e.Text())
}

func (k *kmsgLog) ForwardTo(sl log.StackableLogger) {
	if k.next != nil && sl != nil {
		panic("next already set")
	}
	k.next = sl
}

const LogIdent = "kmsgLog"

func (*kmsgLog) Ident() string               { return LogIdent }
func (k *kmsgLog) Next() log.StackableLogger { return k.next }

func (k *kmsgLog) Finalize() {
	if k.w != nil {
		k.w.Close()
		k.w = nil
	}
	if k.next != nil {
		k.next.Finalize()
	}
}
