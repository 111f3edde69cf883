// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
// Package paths contains locations used by mage. NOTE: mage must be able to
// compile without running go generate, so nothing here may import packages
// with generated code.
package paths

import (
	"os"
	fp "path/filepath"
)

// Find repo root - from USTSLAVE_ROOT env var, if set. Otherwise search
// parents for go.mod and choose the first dir found.
func repoRoot() (string, error) {
	rr := os.Getenv("USTSLAVE_ROOT")
	if len(rr) > 0 {
		return rr, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(fp.Join(wd, "go.mod")); err == nil {
			break
		}
		wd = fp.Dir(wd)
		if len(wd) < 2 {
			wd = ""
			break
		}
	}
	if wd == "" {
		return "", os.ErrInvalid
	}
	err = os.Setenv("USTSLAVE_ROOT", wd)
	if err != nil {
		return "", err
	}
	return wd, nil
}

// Get the working dir location from env USTSLAVE_WORKDIR if set, otherwise use
// a dir adjacent to repo root so 'go test ./...' never descends into build
// output.
func workDir() (string, error) {
	wd := os.Getenv("USTSLAVE_WORKDIR")
	if len(wd) > 0 {
		return wd, nil
	}
	wd = fp.Join(fp.Dir(RepoRoot), fp.Base(RepoRoot)+"_work")
	err := os.Setenv("USTSLAVE_WORKDIR", wd)
	if err != nil {
		return "", err
	}
	return wd, nil
}
