// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/catpreload/internal/meta"
)

// GetCommandAction prints the source URL of a cached logo, or writes its
// bytes to --out ("-" for stdout).
func GetCommandAction(ctx context.Context, cmd *cli.Command) error {
	args, err := requireArgs(cmd, 2)
	if err != nil {
		return err
	}
	key := args[1]

	c, err := loadCatalog(cmd, args[0])
	if err != nil {
		return err
	}
	if !slices.Contains(c.Keys(), key) {
		return fmt.Errorf("%s is not a logo of catalog %s: %w", key, c.ID, ErrNotCached)
	}

	p, err := newPreloader(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	if _, err := p.Restore(ctx, c); err != nil {
		return err
	}

	out := cmd.String("out")
	if out == "" {
		src, ok := p.GetPreloadedImageSrc(key)
		if !ok {
			return fmt.Errorf("%s: %w", key, ErrNotCached)
		}
		_, err := fmt.Fprintln(stdout(cmd), src)
		return err
	}

	img, ok := p.GetPreloadedImage(key)
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrNotCached)
	}
	if out == "-" {
		_, err := stdout(cmd).Write(img.Data)
		return err
	}
	if err := os.WriteFile(out, img.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	log.Infof("wrote %s (%s) to %s", key, humanize.Bytes(uint64(img.Size())), out)
	return nil
}

// GetCommandBuilder constructs the cli.Command definition for the "get"
// command.
func GetCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "get",
		Usage:     "print the source of a preloaded logo or save its bytes",
		UsageText: "catpreload get FILE KEY [options]",
		Flags: append(NewCatalogFlags(), &cli.StringFlag{
			Name:  "out",
			Usage: "write the image bytes to this file, - for stdout",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		}),
		Preloader: true,
		Action:    GetCommandAction,
		Meta:      meta,
	}).Build()
}
