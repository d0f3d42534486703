// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/catpreload/internal/cacheutil"
	"github.com/staranto/catpreload/internal/command"
	"github.com/staranto/catpreload/internal/config"
	mylog "github.com/staranto/catpreload/internal/log"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := os.Args
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = expandArgSets(args)
	}

	// Best-effort: pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		// Non-fatal: print to stderr and continue.
		fmt.Fprintln(os.Stderr, err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, command.ErrIncomplete) {
			return 3
		}
		return 2
	}

	return 0
}

// expandArgSets splices a named argument set from the config file in after
// the command. "@name" on the command line selects <command>.name; without
// one, <command>.defaults is used when it exists.
func expandArgSets(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return args
	}

	for _, a := range args {
		if a == "--help" || a == "-h" {
			return args
		}
	}

	set := "defaults"
	rest := make([]string, 0, len(args))
	picked := false
	for _, a := range args[2:] {
		if !picked && len(a) > 1 && strings.HasPrefix(a, "@") {
			set = a[1:]
			picked = true
			continue
		}
		rest = append(rest, a)
	}

	expanded := []string{args[0], args[1]}
	setArgs, _ := config.GetStringSlice(args[1] + "." + set)
	for _, arg := range setArgs {
		expanded = append(expanded, strings.Fields(arg)...)
	}
	expanded = append(expanded, rest...)

	log.Debugf("set=%s, args=%v", set, expanded)
	return expanded
}
