// Copyright (C) 2015-2020 the Gprovision Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//
//go:build mage
// +build mage

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/magefile/mage/mg"

	"github.com/ghani-1977/sh4-apps/build/paths"
)

/* Env vars
RUN - passed to go test -run. Only tests that match the given regex will run.
COUNT - passed to go test -count. Use 1 to bypass test result caching, and
    higher values to repeat tests.
*/

type Tests mg.Namespace

//runs unit tests
func (Tests) Unit(ctx context.Context) error {
	args, err := testArgs(ctx, nil)
	if err != nil {
		return err
	}
	return gotest(ctx, args...)
}

//runs unit tests with the race detector
func (Tests) Race(ctx context.Context) error {
	args, err := testArgs(ctx, nil)
	if err != nil {
		return err
	}
	return gotest(ctx, append([]string{"-race"}, args...)...)
}

//go vet over our own packages
func (Tests) Vet(ctx context.Context) error {
	args := append([]string{"vet"}, paths.GoDirs...)
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = paths.RepoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		fmt.Printf("%s\n", out)
		return mg.Fatal(2, "go vet error:", err)
	}
	return nil
}

func testArgs(ctx context.Context, pkgs []string) ([]string, error) {
	if len(pkgs) == 0 {
		pkgs = paths.GoDirs
	}
	args := []string{}
	//pass timeout arg?
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		dur := time.Until(deadline) - 20*time.Second //less time than the exact deadline so go test can print out message about what test it's on
		if dur < 0 {
			//already past deadline
			return nil, mg.Fatal(1, "deadline exceeded")
		}
		args = append(args, "-timeout", dur.String())
	}
	args = append(args, pkgs...)

	//limit tests to be run
	if run := os.Getenv("RUN"); run != "" {
		args = append(args, "-run", run)
	}

	//run test(s) multiple times
	if count := os.Getenv("COUNT"); count != "" {
		c, err := strconv.Atoi(count)
		if err != nil {
			return nil, mg.Fatalf(3, "COUNT must be unset or numeric: %s", err)
		}
		if c > 0 {
			args = append(args, "-count", count)
		}
	}
	return args, nil
}

func gotest(ctx context.Context, args ...string) error {
	tst := exec.CommandContext(ctx, "go", "test")
	tst.Args = append(tst.Args, args...)
	tst.Dir = paths.RepoRoot
	fmt.Printf("running %v...\n", tst.Args)
	out, err := tst.CombinedOutput()
	if err == nil {
		fmt.Println("'go test' passes")
		return nil
	}
	fmt.Printf("'go test' output:\n%s\n", string(out))
	return mg.Fatal(5, "go test error:", err)
}
