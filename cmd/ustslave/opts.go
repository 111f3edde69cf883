// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ghani-1977/sh4-apps/pkg/common/strs"
	"github.com/ghani-1977/sh4-apps/pkg/fileutil/kver"
	"github.com/ghani-1977/sh4-apps/pkg/log"
)

const (
	copBaseAuto = "auto"
	copBaseYes  = "yes"
	copBaseNo   = "no"
)

var EUsage = errors.New("bad usage")

type opts struct {
	dev, img string
	verbose  bool
	copBase  string
	logFile  string
	kmsg     bool
	dump     bool
}

// parseArgs accepts options before, between and after the two positional args.
// Defaults come from the environment.
func parseArgs(args []string, stderr io.Writer) (*opts, error) {
	o := &opts{
		verbose: os.Getenv(strs.VerboseEnv()) != "",
		copBase: os.Getenv(strs.CopBaseEnv()),
		logFile: os.Getenv(strs.LogEnv()),
		kmsg:    os.Getenv(strs.KmsgEnv()) != "",
	}
	if o.copBase == "" {
		o.copBase = copBaseAuto
	}
	fs := flag.NewFlagSet(log.GetPrefix(), flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&o.verbose, "v", o.verbose, "print the section table and each copy")
	fs.BoolVar(&o.verbose, "verbose", o.verbose, "same as -v")
	fs.StringVar(&o.copBase, "cop-base", o.copBase, "subtract the coprocessor RAM base from load addresses: auto, yes or no")
	fs.StringVar(&o.logFile, "log", o.logFile, "also append the log to this file")
	fs.BoolVar(&o.kmsg, "kmsg", o.kmsg, "also write status lines to the kernel log")
	fs.BoolVar(&o.dump, "dump", false, "print the section table of <image-file> and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s <coprocessor-device> <image-file> [-v|--verbose]\n", fs.Name())
		fmt.Fprintf(stderr, "       %s --dump <image-file>\n", fs.Name())
		fs.PrintDefaults()
	}

	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		pos = append(pos, fs.Arg(0))
		args = fs.Args()[1:]
	}

	switch o.copBase {
	case copBaseAuto, copBaseYes, copBaseNo:
	default:
		fs.Usage()
		return nil, fmt.Errorf("%w: --cop-base=%q, want auto, yes or no", EUsage, o.copBase)
	}
	switch {
	case o.dump && len(pos) == 1:
		o.img = pos[0]
	case !o.dump && len(pos) == 2:
		o.dev, o.img = pos[0], pos[1]
	default:
		fs.Usage()
		return nil, fmt.Errorf("%w: unexpected arguments %q", EUsage, pos)
	}
	return o, nil
}

var runningRelease = kver.Running

// baseOffset resolves --cop-base. auto asks the running kernel: only the
// oldest driver generation hands out offsets that already exclude the base.
// A release that cannot be read is treated as a current kernel.
func (o *opts) baseOffset() bool {
	switch o.copBase {
	case copBaseYes:
		return true
	case copBaseNo:
		return false
	}
	rel, err := runningRelease()
	if err != nil {
		log.Logf("kernel release unknown (%s), subtracting coprocessor base", err)
		return true
	}
	need := rel.NeedsCopBase()
	log.Logf("kernel %s: subtract coprocessor base = %t", rel, need)
	return need
}
