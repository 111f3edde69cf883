// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
// not for production use

//go:build !release
// +build !release

package paths

import (
	"os/exec"
	fp "path/filepath"
	"strings"

	"github.com/ghani-1977/sh4-apps/pkg/log"
)

//paths shared by mage targets, as well as path-related utility functions

//vars the user may wish to modify. override in another file.
var (
	// Name of the loader binary, both host and target builds.
	LoaderName = "ustslave"

	// GOARCH for target builds when USTSLAVE_GOARCH is unset. Go has no sh4
	// port; boxes with an arm host processor use this.
	DefaultTargetArch = "arm"
)

var (
	RepoRoot, ImportPath, WorkDir string

	// GoDirs - dirs containing code; limits go test and go vet to the module's
	// own packages rather than anything lying around under the work dir.
	GoDirs []string

	// host and target builds of the loader
	HostBin, TargetBin string

	LoaderCmd string
)

func init() {
	var err error
	RepoRoot, err = repoRoot()
	if err != nil {
		log.Logf("Cannot determine repo root.")
	}
	WorkDir, err = workDir()
	if err != nil {
		log.Logf("Cannot determine workdir.")
	}

	cmd := exec.Command("go", "list", "-m")
	cmd.Dir = RepoRoot
	out, err := cmd.Output()
	if err != nil {
		log.Logf("Cannot determine import path.")
	}
	ImportPath = strings.TrimSpace(string(out))

	GoDirs = []string{
		ImportPath + "/cmd/...",
		ImportPath + "/pkg/...",
	}
	LoaderCmd = ImportPath + "/cmd/" + LoaderName
	HostBin = fp.Join(WorkDir, LoaderName)
	TargetBin = fp.Join(WorkDir, "target", LoaderName)
}
