// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
package image

import (
	"bytes"
	"errors"
	"os"
	fp "path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghani-1977/sh4-apps/pkg/copro"
	"github.com/ghani-1977/sh4-apps/pkg/copro/image/imgtest"
	"github.com/ghani-1977/sh4-apps/pkg/log/testlog"
)

func TestReadHeader(t *testing.T) {
	img := imgtest.RoundTrip().Build()
	h, err := ReadHeader(bytes.NewReader(img))
	if err != nil {
		t.Fatal(err)
	}
	if want := (Header{Entry: 0x1000, TableOff: 0x40}); h != want {
		t.Errorf("want %+v, got %+v", want, h)
	}

	for _, l := range []int{0, 0x10, 0x1a, 0x22} {
		_, err := ReadHeader(bytes.NewReader(img[:l]))
		if !copro.IsFormat(err) || !errors.Is(err, ETruncated) {
			t.Errorf("len 0x%x: want truncation FormatError, got %v", l, err)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	im := imgtest.RoundTrip()
	img := im.Build()
	tbl, err := Parse(bytes.NewReader(img))
	if err != nil {
		t.Fatal(err)
	}
	want := []Section{
		{ID: 0, Name: "sec1", Dest: 0x2000, Src: im.Sections[0].Src, Size: 16, Align: 4, Flags: SecLoad},
		{ID: 1, Name: "sec2", Dest: 0x3000, Src: im.Sections[1].Src, Size: 32, Align: 8, Flags: SecLoad},
	}
	if diff := cmp.Diff(want, tbl.Sections); diff != "" {
		t.Errorf("sections (-want +got):\n%s", diff)
	}
	if tbl.Entry != 0x1000 || tbl.Offset != 0x40 {
		t.Errorf("entry 0x%x table 0x%x", tbl.Entry, tbl.Offset)
	}
	tlog.LinesMustMatch(testlog.FilterRe("^DBG:index ID"), []string{
		"DBG:index ID  0: sec1",
		"DBG:index ID  1: sec2",
	})
}

func TestParseStopsAtTerminal(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	im := imgtest.RoundTrip()
	im.AfterTerminal = []imgtest.Section{
		{Flags: imgtest.SecLoad, Dest: 0x4000, Src: 0x10, Size: 0x100},
		//would be a second name table, far too large to read
		{Dest: 0, Src: 0x20, Size: 0xffffffff},
	}
	tbl, err := Parse(bytes.NewReader(im.Build()))
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, s := range tbl.Sections {
		names = append(names, s.Name)
	}
	if diff := cmp.Diff([]string{"sec1", "sec2"}, names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}

func TestParseTruncated(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	img := imgtest.RoundTrip().Build()
	for _, td := range []struct {
		name string
		img  []byte
	}{
		{"mid record", img[:0x40+RecordSize+12]},
		{"at record", img[:0x40+2*RecordSize]},
		{"no table", img[:0x40]},
	} {
		t.Run(td.name, func(t *testing.T) {
			_, err := Parse(bytes.NewReader(td.img))
			if !copro.IsFormat(err) || !errors.Is(err, ETruncated) {
				t.Errorf("want truncation FormatError, got %v", err)
			}
		})
	}

	//table pointer past the end of the file
	bad := append([]byte(nil), img...)
	bad[0x21] = 0xff
	if _, err := Parse(bytes.NewReader(bad)); !copro.IsFormat(err) {
		t.Errorf("want FormatError, got %v", err)
	}
}

func TestNotLoadableKept(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	im := &imgtest.Image{
		Entry: 0x80000000,
		Sections: []imgtest.Section{
			{Name: ".text", Flags: imgtest.SecLoad, Dest: 0x80000000, Size: 0x40},
			{Name: ".bss", Flags: imgtest.SecLoad, Dest: 0x80001000},
			{Name: ".comment", Flags: imgtest.SecLoad | imgtest.SecNotLoad, Dest: 0x80002000, Size: 8},
			{Name: ".debug", Flags: 0, Dest: 0x80003000, Size: 8},
			{Name: ".data", Flags: imgtest.SecLoad, Dest: 0x80004000, Size: 0x10},
		},
	}
	tbl, err := Parse(bytes.NewReader(im.Build()))
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Sections) != 5 {
		t.Fatalf("want all 5 records kept, got %d", len(tbl.Sections))
	}
	var loadable []string
	for _, s := range tbl.Loadable() {
		loadable = append(loadable, s.Name)
	}
	if diff := cmp.Diff([]string{".text", ".data"}, loadable); diff != "" {
		t.Errorf("loadable (-want +got):\n%s", diff)
	}
	if s := tbl.Find(".data"); s == nil || s.ID != 4 {
		t.Errorf("Find(.data) = %+v", s)
	}
	if tbl.Find(".boot") != nil {
		t.Error("found nonexistent section")
	}
}

func TestResolveNames(t *testing.T) {
	t.Run("too few", func(t *testing.T) {
		tlog := testlog.NewTestLog(t, true, false)
		defer tlog.Freeze()
		im := imgtest.RoundTrip()
		im.DropNames = 1
		_, err := Parse(bytes.NewReader(im.Build()))
		if !copro.IsFormat(err) || !errors.Is(err, ENoName) {
			t.Errorf("want ENoName FormatError, got %v", err)
		}
	})
	t.Run("surplus", func(t *testing.T) {
		tlog := testlog.NewTestLog(t, true, false)
		im := imgtest.RoundTrip()
		im.ExtraNames = []string{".shstrtab"}
		tbl, err := Parse(bytes.NewReader(im.Build()))
		if err != nil {
			t.Fatal(err)
		}
		if tbl.Sections[1].Name != "sec2" {
			t.Errorf("got %q", tbl.Sections[1].Name)
		}
		tlog.MustContain(`ignoring surplus name ".shstrtab"`)
	})
	t.Run("unterminated", func(t *testing.T) {
		tlog := testlog.NewTestLog(t, true, false)
		defer tlog.Freeze()
		tbl := &Table{Sections: []Section{{ID: 0}, {ID: 1}}}
		blob := []byte("\x00.text\x00.data")
		if err := ResolveNames(bytes.NewReader(blob), tbl, 0, uint32(len(blob))); err != nil {
			t.Fatal(err)
		}
		if tbl.Sections[0].Name != ".text" || tbl.Sections[1].Name != ".data" {
			t.Errorf("got %+v", tbl.Sections)
		}
	})
	t.Run("oversized", func(t *testing.T) {
		tbl := &Table{}
		err := ResolveNames(bytes.NewReader(nil), tbl, 4, MaxNameTable+1)
		if !copro.IsFormat(err) {
			t.Errorf("want FormatError, got %v", err)
		}
	})
}

func TestSectionString(t *testing.T) {
	s := Section{ID: 1, Name: ".text", Dest: 0x80000000, Src: 0x100, Size: 0x20, Align: 0x10, Flags: SecLoad, Aux: 2}
	want := " 1: " + strings.Repeat(" ", 25) + ".text 0x80000000(- 0x80000020) 0x00000100(- 0x00000120) 0x00000020(    32) 2**4  0x0001 0x0002"
	if got := s.String(); got != want {
		t.Errorf("\nwant %q\n got %q", want, got)
	}
	for a, want := range map[uint32]string{1: "2**0", 0x100: "2**8", 0: "0x0", 6: "0x6"} {
		if got := alignStr(a); got != want {
			t.Errorf("alignStr(%d): want %s, got %s", a, want, got)
		}
	}
}

func TestOpen(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	defer tlog.Freeze()
	dir := t.TempDir()
	img := imgtest.RoundTrip().Build()
	compressed, err := imgtest.Xz(img)
	if err != nil {
		t.Fatal(err)
	}
	write := func(name string, data []byte) string {
		p := fp.Join(dir, name)
		if err := os.WriteFile(p, data, 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	for _, td := range []struct {
		path       string
		compressed bool
	}{
		{write("video.elf", img), false},
		{write("audio.elf.xz", compressed), true},
		{write("misnamed.elf", compressed), true},
	} {
		src, err := Open(td.path)
		if err != nil {
			t.Fatalf("%s: %s", td.path, err)
		}
		if src.Compressed != td.compressed {
			t.Errorf("%s: compressed=%t", td.path, src.Compressed)
		}
		tbl, err := Parse(src)
		if err != nil {
			t.Errorf("%s: %s", td.path, err)
		} else if len(tbl.Sections) != 2 || tbl.Entry != 0x1000 {
			t.Errorf("%s: bad table %+v", td.path, tbl)
		}
		if err := src.Close(); err != nil {
			t.Error(err)
		}
		if err := src.Close(); err != nil {
			t.Errorf("second close: %s", err)
		}
	}

	_, err = Open(write("video.bin", img))
	if !copro.IsFormat(err) || !errors.Is(err, EExtension) {
		t.Errorf("want EExtension, got %v", err)
	}
	_, err = Open(fp.Join(dir, "missing.elf"))
	if !copro.IsIO(err) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("want IOError wrapping ErrNotExist, got %v", err)
	}
	_, err = Open(write("broken.elf.xz", img))
	if !copro.IsFormat(err) {
		t.Errorf("want FormatError for bad xz, got %v", err)
	}
}

func TestOpenMagicWarning(t *testing.T) {
	tlog := testlog.NewTestLog(t, true, false)
	dir := t.TempDir()
	plain := imgtest.RoundTrip().Build()
	withMagic := append([]byte(nil), plain...)
	copy(withMagic, "\x7fELF")
	for name, data := range map[string][]byte{"plain.elf": plain, "magic.elf": withMagic} {
		p := fp.Join(dir, name)
		if err := os.WriteFile(p, data, 0644); err != nil {
			t.Fatal(err)
		}
		src, err := Open(p)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = Parse(src); err != nil {
			t.Errorf("%s: %s", name, err)
		}
		src.Close()
	}
	tlog.LinesMustMatch(testlog.FilterRe("no ELF magic"), []string{
		"LOG:" + fp.Join(dir, "plain.elf") + ": no ELF magic, trusting the section table",
	})
}

// seeks always fail
type noSeek struct{ *bytes.Reader }

var errNoSeek = errors.New("illegal seek")

func (noSeek) Seek(int64, int) (int64, error) { return 0, errNoSeek }

func TestReadHeaderSeekFails(t *testing.T) {
	_, err := ReadHeader(noSeek{bytes.NewReader(imgtest.RoundTrip().Build())})
	if !copro.IsFormat(err) || !errors.Is(err, errNoSeek) {
		t.Errorf("want FormatError wrapping the seek error, got %v", err)
	}
}
