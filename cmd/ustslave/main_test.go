// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
package main

import (
	"bytes"
	"errors"
	"flag"
	"io/ioutil"
	fp "path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghani-1977/sh4-apps/pkg/common/strs"
	"github.com/ghani-1977/sh4-apps/pkg/copro"
	"github.com/ghani-1977/sh4-apps/pkg/copro/image/imgtest"
	"github.com/ghani-1977/sh4-apps/pkg/fileutil/kver"
	"github.com/ghani-1977/sh4-apps/pkg/log/testlog"
)

func clearEnv(t *testing.T) {
	for _, e := range []string{strs.VerboseEnv(), strs.CopBaseEnv(), strs.LogEnv(), strs.KmsgEnv()} {
		t.Setenv(e, "")
	}
}

func TestParseArgs(t *testing.T) {
	clearEnv(t)
	for _, td := range []struct {
		name string
		args []string
		want *opts
		err  error
	}{
		{
			name: "plain",
			args: []string{"/dev/st231-0", "video.elf"},
			want: &opts{dev: "/dev/st231-0", img: "video.elf", copBase: "auto"},
		},
		{
			name: "short verbose first",
			args: []string{"-v", "/dev/st231-0", "video.elf"},
			want: &opts{dev: "/dev/st231-0", img: "video.elf", copBase: "auto", verbose: true},
		},
		{
			name: "long verbose last",
			args: []string{"/dev/st231-1", "audio.elf.xz", "--verbose"},
			want: &opts{dev: "/dev/st231-1", img: "audio.elf.xz", copBase: "auto", verbose: true},
		},
		{
			name: "interleaved",
			args: []string{"/dev/st231-0", "--cop-base=no", "video.elf", "--log=/tmp/ust.log", "--kmsg"},
			want: &opts{dev: "/dev/st231-0", img: "video.elf", copBase: "no", logFile: "/tmp/ust.log", kmsg: true},
		},
		{
			name: "dump",
			args: []string{"--dump", "video.elf"},
			want: &opts{img: "video.elf", copBase: "auto", dump: true},
		},
		{name: "missing image", args: []string{"/dev/st231-0"}, err: EUsage},
		{name: "extra", args: []string{"/dev/st231-0", "a.elf", "b.elf"}, err: EUsage},
		{name: "dump with device", args: []string{"--dump", "/dev/st231-0", "a.elf"}, err: EUsage},
		{name: "bad cop-base", args: []string{"--cop-base=maybe", "/dev/st231-0", "a.elf"}, err: EUsage},
		{name: "help", args: []string{"-h"}, err: flag.ErrHelp},
	} {
		t.Run(td.name, func(t *testing.T) {
			var stderr bytes.Buffer
			got, err := parseArgs(td.args, &stderr)
			if td.err != nil {
				if !errors.Is(err, td.err) {
					t.Errorf("want %v, got %v", td.err, err)
				}
				if !strings.Contains(stderr.String(), "usage:") {
					t.Errorf("no usage printed: %q", stderr.String())
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(td.want, got, cmp.AllowUnexported(opts{})); diff != "" {
				t.Errorf("opts (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseArgsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(strs.VerboseEnv(), "1")
	t.Setenv(strs.CopBaseEnv(), "yes")
	got, err := parseArgs([]string{"/dev/st231-0", "video.elf"}, ioutil.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if !got.verbose || got.copBase != "yes" {
		t.Errorf("env ignored: %+v", got)
	}
	got, err = parseArgs([]string{"--cop-base=no", "/dev/st231-0", "video.elf"}, ioutil.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if got.copBase != "no" {
		t.Errorf("flag did not override env: %+v", got)
	}
}

func TestBaseOffset(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer func() { runningRelease = kver.Running }()
	for _, td := range []struct {
		mode, release string
		want          bool
	}{
		{"yes", "2.6.17.14_stm22_0041", true},
		{"no", "2.6.32.59_stm24_0211", false},
		{"auto", "2.6.17.14_stm22_0041", false},
		{"auto", "2.6.23.17_stm23_0123", true},
		{"auto", "2.6.32.61+", true},
		{"auto", "4.9", true},
		{"auto", "custom", true},
	} {
		release := td.release
		runningRelease = func() (kver.Release, error) { return kver.ParseRelease(release) }
		if got := (&opts{copBase: td.mode}).baseOffset(); got != td.want {
			t.Errorf("%s/%s: want %t, got %t", td.mode, td.release, td.want, got)
		}
	}
	tlog.LinesMustMatch(testlog.FilterRe("release unknown"), []string{
		"LOG:kernel release unknown (parse error), subtracting coprocessor base",
	})
}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	f := fp.Join(t.TempDir(), name)
	if err := ioutil.WriteFile(f, imgtest.RoundTrip().Build(), 0644); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestDump(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	var out bytes.Buffer
	err := run(&opts{img: writeImage(t, "rt.elf"), dump: true}, &out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 lines, got %q", lines)
	}
	if lines[0] != "entry 0x00001000, section table at 0x00000040" {
		t.Errorf("bad header line %q", lines[0])
	}
	if !strings.Contains(lines[1], "sec1") || !strings.Contains(lines[2], "sec2") {
		t.Errorf("bad table %q", lines[1:])
	}
}

func TestRunBadExtension(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	err := run(&opts{dev: "/dev/null", img: writeImage(t, "rt.bin"), copBase: "no"}, ioutil.Discard)
	if !copro.IsFormat(err) {
		t.Errorf("want FormatError, got %v", err)
	}
}

// a regular file takes the copies, but rejects the start request
func TestRunRegularFile(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	dev := fp.Join(t.TempDir(), "cop")
	if err := ioutil.WriteFile(dev, nil, 0644); err != nil {
		t.Fatal(err)
	}
	err := run(&opts{dev: dev, img: writeImage(t, "rt.elf"), copBase: "no"}, ioutil.Discard)
	if !copro.IsDevice(err) {
		t.Errorf("want DeviceError, got %v", err)
	}
	mem, err := ioutil.ReadFile(dev)
	if err != nil {
		t.Fatal(err)
	}
	if len(mem) != 0x3000+32 {
		t.Fatalf("want 0x%x bytes, got 0x%x", 0x3000+32, len(mem))
	}
	if !bytes.Equal(mem[0x2000:0x2010], imgtest.Fill(0x2000, 16)) || !bytes.Equal(mem[0x3000:], imgtest.Fill(0x3000, 32)) {
		t.Errorf("sections not copied")
	}
}
