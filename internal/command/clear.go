// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/catpreload/internal/meta"
)

// ClearCommandAction removes the catalog's logos from the cache and mirror.
// Each slot is reported as "cleared" when an image was present.
func ClearCommandAction(ctx context.Context, cmd *cli.Command) error {
	args, err := requireArgs(cmd, 1)
	if err != nil {
		return err
	}

	c, err := loadCatalog(cmd, args[0])
	if err != nil {
		return err
	}

	p, err := newPreloader(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	if _, err := p.Restore(ctx, c); err != nil {
		return err
	}

	rows := catalogRows(p, c)
	p.ClearCatalogPreloadedImages(ctx, c)
	for _, row := range rows {
		if row["status"] == "cached" {
			row["status"] = "cleared"
		}
	}

	return emit(cmd, rows, []string{"key", "status", "src"})
}

// ClearCommandBuilder constructs the cli.Command definition for the "clear"
// command.
func ClearCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "clear",
		Usage:     "remove the preloaded logos of a catalog",
		UsageText: "catpreload clear FILE [options]",
		Flags:     NewCatalogFlags(),
		Preloader: true,
		Action:    ClearCommandAction,
		Meta:      meta,
	}).Build()
}
