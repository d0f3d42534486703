// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/catpreload/internal/meta"
)

// StatusCommandAction restores the catalog's images from the mirror and
// reports which are cached. It fails with ErrIncomplete when any logo is
// missing.
func StatusCommandAction(ctx context.Context, cmd *cli.Command) error {
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

	if err := emit(cmd, catalogRows(p, c), imageColumns); err != nil {
		return err
	}

	if !p.AreCatalogImagesPreloaded(c) {
		return fmt.Errorf("catalog %s: %w", c.ID, ErrIncomplete)
	}
	return nil
}

// StatusCommandBuilder constructs the cli.Command definition for the
// "status" command.
func StatusCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "status",
		Usage:     "report which logos of a catalog are preloaded",
		UsageText: "catpreload status FILE [options]",
		Flags:     NewCatalogFlags(),
		Preloader: true,
		Action:    StatusCommandAction,
		Meta:      meta,
	}).Build()
}
