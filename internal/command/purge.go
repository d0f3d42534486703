// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/staranto/catpreload/internal/cacheutil"
	"github.com/staranto/catpreload/internal/meta"
)

// PurgeCommandAction deletes disk cache files older than --hours.
func PurgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	if _, err := requireArgs(cmd, 0); err != nil {
		return err
	}

	dir, ok := cacheutil.Dir()
	if !ok {
		return errors.New("disk cache is disabled")
	}

	hours := cmd.Int("hours")
	n, err := cacheutil.Purge(hours)
	if err != nil {
		return err
	}

	return emit(cmd, []map[string]any{{
		"dir":    dir,
		"hours":  hours,
		"purged": n,
	}}, []string{"dir", "hours", "purged"})
}

// PurgeCommandBuilder constructs the cli.Command definition for the "purge"
// command.
func PurgeCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "purge",
		Usage:     "remove stale files from the disk cache",
		UsageText: "catpreload purge [options]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "hours",
				Usage: "remove files not written within this many hours",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("CATPRELOAD_PURGE_HOURS"),
				),
				Value: 24 * 7,
				Validator: func(value int) error {
					if value <= 0 {
						return errors.New("must be positive")
					}
					return nil
				},
			},
		},
		Action: PurgeCommandAction,
		Meta:   meta,
	}).Build()
}
