// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
// Command ustslave loads a section image into a coprocessor and starts it.
//
//	ustslave <coprocessor-device> <image-file> [-v|--verbose]
//
// Images are .elf files, optionally xz-compressed (.elf.xz). With --dump, the
// section table is printed and no device is touched.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ghani-1977/sh4-apps/pkg/copro/image"
	"github.com/ghani-1977/sh4-apps/pkg/copro/load"
	"github.com/ghani-1977/sh4-apps/pkg/hw/coproc"
	"github.com/ghani-1977/sh4-apps/pkg/hw/kmsg"
	"github.com/ghani-1977/sh4-apps/pkg/log"
	"github.com/ghani-1977/sh4-apps/pkg/log/flags"
)

//in any binary with main.buildId string, it is set at compile time to $BUILD_INFO
var buildId string

func main() {
	o, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err = setupLogs(o); err != nil {
		log.Fatalf("setting up log: %s", err)
	}
	log.Debugf("buildId: %s", buildId)
	if err = run(o, os.Stdout); err != nil {
		log.Fatalf("%s", err)
	}
	log.Finalize()
}

func setupLogs(o *opts) error {
	if err := log.AddConsoleLog(flags.NA, o.verbose); err != nil {
		return err
	}
	if o.logFile != "" {
		if err := log.AddFileLog(o.logFile); err != nil {
			return err
		}
	}
	log.FlushMemLog()
	if o.kmsg {
		if err := kmsg.AddLog(kmsg.FacDaemon); err != nil {
			log.Logf("not logging to %s: %s", kmsg.Path, err)
		}
	}
	return nil
}

// run does everything but process exit, so that deferred closes always happen.
func run(o *opts, stdout io.Writer) error {
	src, err := image.Open(o.img)
	if err != nil {
		return err
	}
	defer src.Close()
	if o.dump {
		return dump(src, stdout)
	}

	base := o.baseOffset()
	dev, err := coproc.Open(o.dev)
	if err != nil {
		return err
	}
	defer dev.Close()

	log.Msgf("loading %s into %s", o.img, o.dev)
	_, err = load.Run(dev, src, base)
	return err
}

func dump(src io.ReadSeeker, w io.Writer) error {
	tbl, err := image.Parse(src)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "entry 0x%08X, section table at 0x%08X\n", tbl.Entry, tbl.Offset)
	for _, l := range tbl.Lines() {
		fmt.Fprintln(w, l)
	}
	if boot := tbl.Find(image.BootName); boot != nil && boot.Loadable() {
		fmt.Fprintf(w, "%s is relocated after the last section and becomes the entry point\n", image.BootName)
	}
	return nil
}
