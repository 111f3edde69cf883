// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
//go:build mage
// +build mage

/*
 build file for mage build system
 list tgts with
go run magerunner.go -d build -w . -l

 build tgt with
go run magerunner.go -d build -w . tgt
*/

package main

import (
	"context"
	"fmt"
	"os"
	fp "path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/magefile/mage/target"

	"github.com/ghani-1977/sh4-apps/build/paths"
)

func BuildAll(ctx context.Context) error {
	fmt.Println("mage running")
	mg.CtxDeps(ctx, Bins.Ustslave, Bins.Target)
	return nil
}

type Bins mg.Namespace

// loader for the host, for parsing and dumping images
func (Bins) Ustslave(ctx context.Context) error {
	mg.CtxDeps(ctx, workdir)
	return buildIfStale(ctx, nil, nil, paths.HostBin)
}

// loader for the box. GOARCH comes from USTSLAVE_GOARCH.
func (Bins) Target(ctx context.Context) error {
	mg.CtxDeps(ctx, workdir)
	arch := os.Getenv("USTSLAVE_GOARCH")
	if arch == "" {
		arch = paths.DefaultTargetArch
	}
	env := map[string]string{
		"GOOS":        "linux",
		"GOARCH":      arch,
		"CGO_ENABLED": "0",
	}
	if arch == "arm" && os.Getenv("GOARM") == "" {
		env["GOARM"] = "7"
	}
	return buildIfStale(ctx, env, []string{"release"}, paths.TargetBin)
}

func buildIfStale(ctx context.Context, env map[string]string, tags []string, tgt string) error {
	deps, err := depDirs(ctx, paths.LoaderCmd, tags)
	if err != nil {
		return err
	}
	//check if anything is newer than tgt (if it exists)
	rebuild, err := target.Dir(tgt, deps...)
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("skipping build of", paths.LoaderCmd)
		return nil
	}
	for k, v := range env {
		fmt.Printf("%s=%s\n", k, v)
	}
	var args []string
	if len(tags) > 0 {
		//tags takes a _space_ separated list
		args = []string{"-tags", strings.Join(tags, " ")}
	}
	args = append(args, "-o", tgt, paths.LoaderCmd)
	return build(env, args...)
}

//build go code with desired flags
var build func(env map[string]string, args ...string) error

func init() {
	var args []string
	for _, a := range []string{
		"build",
		"-trimpath",
		"-ldflags", "-X 'main.buildId=${BUILD_INFO}' -s -w",
	} {
		args = append(args, os.ExpandEnv(a))
	}
	build = RunWCmd(nil, "go", args...)
}

//sh.RunCmd modified to call RunWith
func RunWCmd(env map[string]string, cmd string, args ...string) func(env2 map[string]string, args ...string) error {
	return func(env2 map[string]string, args2 ...string) error {
		var cenv map[string]string
		if env == nil {
			cenv = env2
		} else {
			cenv = env
			if env2 != nil {
				for k, v := range env2 {
					cenv[k] = v
				}
			}
		}
		return sh.RunWith(cenv, cmd, append(args, args2...)...)
	}
}

func workdir() {
	//ignore errors
	_ = os.MkdirAll(fp.Join(paths.WorkDir, "target"), 0755)
}

//return paths to pkgs imported by given package.
func depDirs(ctx context.Context, pkg string, tags []string) ([]string, error) {
	out, err := sh.Output("go", "list", "-f", "{{range .Deps}}{{.}}\n{{end}}", "-tags", strings.Join(tags, " "), pkg)
	if err != nil {
		return nil, err
	}
	//keep only our own packages, as absolute paths
	deps := []string{fp.Join(paths.RepoRoot, "go.mod")}
	for _, l := range strings.Split(out, "\n") {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, paths.ImportPath+"/") {
			deps = append(deps, strings.Replace(l, paths.ImportPath, paths.RepoRoot, 1))
		}
	}
	return append(deps, strings.Replace(pkg, paths.ImportPath, paths.RepoRoot, 1)), nil
}
