// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
package load

import (
	"io"

	"github.com/ghani-1977/sh4-apps/pkg/copro/image"
	"github.com/ghani-1977/sh4-apps/pkg/log"
)

type Starter interface {
	Start(entry uint32) error
}

// Launch starts the coprocessor at entry. The image must already be loaded.
func Launch(dev Starter, entry uint32) error {
	if err := dev.Start(entry); err != nil {
		return asDevice("start", err)
	}
	log.Msgf("coprocessor running (from 0x%x)", entry)
	return nil
}

// Run is the whole pipeline for an opened image: parse, load, launch.
func Run(dev Device, src io.ReadSeeker, baseOffset bool) (*Result, error) {
	tbl, err := image.Parse(src)
	if err != nil {
		return nil, err
	}
	for _, line := range tbl.Lines() {
		log.Debugf("%s", line)
	}
	l := &Loader{Dev: dev, Src: src, BaseOffset: baseOffset}
	res, err := l.Load(tbl)
	if err != nil {
		return nil, err
	}
	log.Debugf("start address = 0x%08X", res.Entry)
	if err := Launch(dev, res.Entry); err != nil {
		return res, err
	}
	return res, nil
}
