// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Package flags holds the bits attached to every log entry. Sinks use them to
// decide whether an entry is theirs to print.
package flags

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Flag int

const (
	NA Flag = 0

	//short, user-facing message (progress, final status)
	EndUser Flag = 1 << (iota - 1)
	//the entry that precedes process termination
	Fatal
	//keep out of the file log
	NotFile
	//only shown on the console in verbose mode
	Debug
)

var named = []Flag{EndUser, Fatal, NotFile, Debug}

func (f Flag) MarshalJSON() ([]byte, error) { return json.Marshal(f.String()) }

func (f Flag) String() string {
	switch f {
	case NA:
		return ""
	case EndUser:
		return "user"
	case Fatal:
		return "fatal"
	case NotFile:
		return "not file"
	case Debug:
		return "debug"
	}
	for _, bit := range named {
		if f&bit != 0 {
			return strings.Join([]string{bit.String(), (f &^ bit).String()}, "|")
		}
	}
	return fmt.Sprintf("0x%x", int(f))
}

// Has reports whether every bit of want is set in f.
func (f Flag) Has(want Flag) bool { return f&want == want }
