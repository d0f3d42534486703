// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/catpreload/internal/meta"
)

// PreloadCommandAction fetches every logo of the selected catalog into the
// cache and its mirror, then reports the state of each logo slot. The first
// failed load fails the command, but loads already in flight are waited for
// so their successes are mirrored and reported.
func PreloadCommandAction(ctx context.Context, cmd *cli.Command) error {
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

	reporter := newReporter(cmd, fmt.Sprintf("catalog %s", c.ID), len(c.LogoSlots()))
	preloadErr := p.PreloadCatalogImages(ctx, c, reporter.Step)
	if preloadErr != nil {
		p.Wait()
	}
	reporter.Done()
	log.Debugf("preloaded %d of %d", p.Cache().Len(), len(c.LogoSlots()))

	if err := emit(cmd, catalogRows(p, c), imageColumns); err != nil {
		return err
	}
	return preloadErr
}

// PreloadCommandBuilder constructs the cli.Command definition for the
// "preload" command.
func PreloadCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "preload",
		Usage:     "preload every logo of a catalog",
		UsageText: "catpreload preload FILE [options]",
		Flags:     NewCatalogFlags(),
		Preloader: true,
		Action:    PreloadCommandAction,
		Meta:      meta,
	}).Build()
}
