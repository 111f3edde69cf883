// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
// Package kver parses kernel release strings, to tell which STLinux
// generation (and so which coprocessor driver) a box runs.
package kver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blang/semver/v4"
	"golang.org/x/sys/unix"

	"github.com/ghani-1977/sh4-apps/pkg/log"
)

var EParse = errors.New("parse error")

/*
Release is the parsed form of `uname -r`:

	2.6.17.14_stm22_0041
	2.6.23.17_stm23_0123
	2.6.32.59_stm24_0211-local
	4.9
	3.4.0+
	maj.min[.patch[.sub]][+][_vendor][-localver]
*/
type Release struct {
	Raw             string
	Maj, Min, Patch uint64
	Sub             uint64 //fourth component, 0 if absent
	Vendor          string //after the first '_'
	LocalVer        string //after the first '-'
}

// ParseRelease parses a kernel release string.
func ParseRelease(rel string) (Release, error) {
	r := Release{Raw: rel}
	s := strings.TrimSpace(rel)
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s, r.LocalVer = s[:i], s[i+1:]
	}
	if i := strings.IndexByte(s, '_'); i >= 0 {
		s, r.Vendor = s[:i], s[i+1:]
	}
	//dirty builds from a kernel tree carry a trailing '+'
	s = strings.TrimSuffix(s, "+")
	elements := strings.Split(s, ".")
	if len(elements) < 2 || len(elements) > 4 {
		log.Logf("unable to parse %q, wrong number of dots", rel)
		return Release{}, EParse
	}
	if len(elements) == 2 {
		elements = append(elements, "0")
	}
	v, err := semver.Parse(strings.Join(elements[:3], "."))
	if err != nil {
		log.Logf("unable to parse %q: %s", rel, err)
		return Release{}, EParse
	}
	r.Maj, r.Min, r.Patch = v.Major, v.Minor, v.Patch
	if len(elements) == 4 {
		r.Sub, err = strconv.ParseUint(elements[3], 10, 64)
		if err != nil {
			log.Logf("unable to parse %q, bad uint %q: %s", rel, elements[3], err)
			return Release{}, EParse
		}
	}
	return r, nil
}


// Running returns the release of the running kernel.
func Running() (Release, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return Release{}, err
	}
	return ParseRelease(unix.ByteSliceToString(u.Release[:]))
}

// STLinux generation: 22 for 2.6.17 kernels, 23 for 2.6.23, 24 for
// everything else (2.6.32 on the boxes in the field).
func (r Release) Stm() int {
	if r.Maj == 2 && r.Min == 6 {
		switch r.Patch {
		case 17:
			return 22
		case 23:
			return 23
		}
	}
	return 24
}

// NeedsCopBase reports whether the coprocessor driver of this kernel expects
// device offsets relative to the coprocessor RAM base. Only the stm22 driver
// takes absolute addresses.
func (r Release) NeedsCopBase() bool { return r.Stm() != 22 }

func (r Release) String() string {
	return fmt.Sprintf("%d.%d.%d (stm%d)", r.Maj, r.Min, r.Patch, r.Stm())
}
