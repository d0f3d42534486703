// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/staranto/catpreload/internal/attrs"
	"github.com/staranto/catpreload/internal/aws"
	"github.com/staranto/catpreload/internal/cacheutil"
	"github.com/staranto/catpreload/internal/catalog"
	"github.com/staranto/catpreload/internal/meta"
	badgermirror "github.com/staranto/catpreload/internal/mirror/badger"
	"github.com/staranto/catpreload/internal/mirror/disk"
	s3mirror "github.com/staranto/catpreload/internal/mirror/s3"
	"github.com/staranto/catpreload/internal/output"
	"github.com/staranto/catpreload/internal/preload"
	"github.com/staranto/catpreload/internal/progress"
)

var (
	// ErrIncomplete is returned by status when some logos are not cached.
	ErrIncomplete = errors.New("catalog images are not all preloaded")
	// ErrNotCached is returned by get for a key with no cached image.
	ErrNotCached = errors.New("image is not cached")
	// ErrUsage reports missing or surplus positional arguments.
	ErrUsage = errors.New("usage")
)

// imageColumns are the columns emitted for per-image results.
var imageColumns = []string{"key", "status", "type", "dims", "size", "fetched", "src"}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// CommandBuilder constructs a cli.Command for a subcommand using a consistent
// pattern. It wires metadata, appends the global flags and, for commands that
// touch images, the preloader flags.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Preloader bool
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (b *CommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{}, b.Flags...)
	flags = append(flags, NewGlobalFlags(b.Name, b.Meta.Config.Source)...)
	if b.Preloader {
		flags = append(flags, NewPreloaderFlags(b.Name, b.Meta.Config.Source)...)
	}

	return &cli.Command{
		Name:      b.Name,
		Usage:     b.Usage,
		UsageText: b.UsageText,
		Metadata: map[string]any{
			"meta": b.Meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: b.Action,
	}
}

// requireArgs checks that exactly n positional arguments were given.
func requireArgs(cmd *cli.Command, n int) ([]string, error) {
	args := cmd.Args().Slice()
	if len(args) != n {
		return nil, fmt.Errorf("%w: %s", ErrUsage, cmd.UsageText)
	}
	return args, nil
}

// stdout is where command results are written.
func stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// loadCatalog reads the catalog named by path, relative to the directory the
// process started in.
func loadCatalog(cmd *cli.Command, path string) (*catalog.Catalog, error) {
	m := GetMeta(cmd)
	if !filepath.IsAbs(path) && m.StartingDir != "" {
		path = filepath.Join(m.StartingDir, path)
	}
	return catalog.Load(path, cmd.String("query"), cmd.Int("index"))
}

// newMirror returns the store selected by --mirror, or nil for "none".
func newMirror(ctx context.Context, cmd *cli.Command) (preload.Mirror, error) {
	switch cmd.String("mirror") {
	case "disk":
		return disk.New(cmd.String("origin")), nil
	case "badger":
		dir := cmd.String("badger-dir")
		if dir == "" {
			base, ok, err := cacheutil.EnsureBaseDir()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errors.New("no cache directory for the badger mirror, set --badger-dir")
			}
			dir = filepath.Join(base, cacheutil.DBDir)
		}
		return badgermirror.Open(dir, cmd.String("origin"))
	case "s3":
		var opts []aws.Option
		if v := cmd.String("profile"); v != "" {
			opts = append(opts, aws.WithProfile(v))
		}
		if v := cmd.String("region"); v != "" {
			opts = append(opts, aws.WithRegion(v))
		}
		if v := cmd.String("endpoint"); v != "" {
			opts = append(opts, aws.WithEndpoint(v))
		}
		client, err := aws.NewS3Client(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return s3mirror.New(client, cmd.String("bucket"), cmd.String("prefix"))
	default:
		return nil, nil
	}
}

// session is a Preloader for the life of one command. Close writes the run's
// metrics when --metrics-file is set.
type session struct {
	*preload.Preloader
	registry    *prometheus.Registry
	metricsFile string
}

func (s *session) Close() error {
	err := s.Preloader.Close()
	if s.registry != nil && s.metricsFile != "" {
		if werr := prometheus.WriteToTextfile(s.metricsFile, s.registry); werr != nil {
			log.WithError(werr).Warnf("failed to write metrics to %s", s.metricsFile)
		}
	}
	return err
}

// newPreloader builds a Preloader from the preloader flags.
func newPreloader(ctx context.Context, cmd *cli.Command) (*session, error) {
	loaderOpts := []preload.LoaderOption{preload.WithTimeout(cmd.Duration("timeout"))}
	if size := cmd.Int64("max-size"); size > 0 {
		loaderOpts = append(loaderOpts, preload.WithMaxSize(size))
	}
	loader := preload.NewHTTPLoader(nil, loaderOpts...)

	opts := []preload.Option{
		preload.WithResolver(preload.Resolver{
			Origin:   cmd.String("origin"),
			LogoRoot: cmd.String("logo-root"),
		}),
		preload.WithDedupe(cmd.Bool("dedupe")),
	}

	m, err := newMirror(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to set up %s mirror: %w", cmd.String("mirror"), err)
	}
	if m != nil {
		opts = append(opts, preload.WithMirror(m))
	}

	s := &session{metricsFile: cmd.String("metrics-file")}
	if s.metricsFile != "" {
		s.registry = prometheus.NewRegistry()
		opts = append(opts, preload.WithMetrics(preload.NewMetrics(s.registry)))
	}

	log.Debugf("preloader: origin=%q logo-root=%q mirror=%s", cmd.String("origin"), cmd.String("logo-root"), cmd.String("mirror"))
	s.Preloader = preload.New(preload.NewCache(), loader, opts...)
	return s, nil
}

// newReporter returns a progress reporter drawing on stderr when --progress
// is set and stderr is a terminal.
func newReporter(cmd *cli.Command, label string, total int) *progress.Reporter {
	enabled := cmd.Bool("progress") && progress.IsTerminal(os.Stderr)
	return progress.New(os.Stderr, label, total, enabled)
}

// imageRow describes the cache state of one logo slot.
func imageRow(key, path string, img *preload.Image, now time.Time) map[string]any {
	row := map[string]any{
		"key":    key,
		"path":   path,
		"status": "missing",
	}
	if img == nil {
		return row
	}

	row["status"] = "cached"
	row["src"] = img.Src
	row["type"] = img.ContentType
	row["bytes"] = int64(img.Size())
	row["size"] = humanize.Bytes(uint64(img.Size()))
	if img.Width > 0 && img.Height > 0 {
		row["dims"] = fmt.Sprintf("%dx%d", img.Width, img.Height)
	}
	if !img.FetchedAt.IsZero() {
		row["fetched"] = humanize.RelTime(img.FetchedAt, now, "ago", "from now")
	}
	return row
}

// imageGetter looks up cached images by key.
type imageGetter interface {
	GetPreloadedImage(key string) (*preload.Image, bool)
}

// catalogRows returns one row per logo slot of c.
func catalogRows(p imageGetter, c *catalog.Catalog) []map[string]any {
	now := time.Now()
	slots := c.LogoSlots()
	rows := make([]map[string]any, 0, len(slots))
	for _, slot := range slots {
		img, _ := p.GetPreloadedImage(slot.Key)
		rows = append(rows, imageRow(slot.Key, slot.Path, img, now))
	}
	return rows
}

// BuildAttrs merges the --attrs flag into the command's default columns.
func BuildAttrs(cmd *cli.Command, defaults ...string) (attrs.AttrList, error) {
	al := attrs.New(defaults...)
	if err := al.Set(cmd.String("attrs")); err != nil {
		return nil, err
	}
	al.SetGlobalTransformSpec()
	log.Debugf("attrs: %s", al.String())
	return al, nil
}

// emit renders rows with the global output flags. columns are the defaults
// --attrs is merged into.
func emit(cmd *cli.Command, rows []map[string]any, columns []string) error {
	al, err := BuildAttrs(cmd, columns...)
	if err != nil {
		return err
	}
	return output.SliceDiceSpit(rows, al, output.OptionsFromCommand(cmd), stdout(cmd))
}
