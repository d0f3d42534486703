// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/staranto/catpreload/internal/meta"
)

// FetchCommandAction preloads a single image path under --key, which
// defaults to the path itself.
func FetchCommandAction(ctx context.Context, cmd *cli.Command) error {
	args, err := requireArgs(cmd, 1)
	if err != nil {
		return err
	}
	path := args[0]

	key := cmd.String("key")
	if key == "" {
		key = path
	}

	p, err := newPreloader(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	reporter := newReporter(cmd, key, 1)
	img, err := p.Preload(ctx, path, key, reporter.Step)
	reporter.Done()
	if err != nil {
		return err
	}

	return emit(cmd, []map[string]any{imageRow(key, path, img, time.Now())}, imageColumns)
}

// FetchCommandBuilder constructs the cli.Command definition for the "fetch"
// command.
func FetchCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "fetch",
		Usage:     "preload a single image",
		UsageText: "catpreload fetch PATH [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "cache key to store the image under (default: PATH)",
			},
		},
		Preloader: true,
		Action:    FetchCommandAction,
		Meta:      meta,
	}).Build()
}
