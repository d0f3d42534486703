// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/catpreload/internal/preload"
)

// NewGlobalFlags returns the output flags shared by every command. params[0]
// is the command name, params[1] the config file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	ns, path := params[0], params[1]

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "columns to emit as key[:title[:transform]], ! hides a column, * applies to all",
			Sources: configSources(ns, "attrs", path),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: configSources(ns, "color", path),
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml)",
			Sources: configSources(ns, "output", path),
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"sort", altsrc.StringSourcer(path)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: configSources(ns, "titles", path),
			Value:   false,
		},
	}

	return
}

// NewPreloaderFlags returns the flags that configure how images are resolved,
// fetched and mirrored.
func NewPreloaderFlags(ns string, path string) []cli.Flag {
	return []cli.Flag{
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "origin",
			Usage:   "origin relative logo paths are resolved against",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CATPRELOAD_ORIGIN")),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "logo-root",
			Usage:   "path prefix for bare logo file names",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CATPRELOAD_LOGO_ROOT")),
			Value:   preload.DefaultLogoRoot,
		}),
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "per image request timeout",
			Sources: withConfig(cli.NewValueSourceChain(cli.EnvVar("CATPRELOAD_TIMEOUT")), ns, "timeout", path),
			Value:   preload.DefaultTimeout,
		},
		&cli.Int64Flag{
			Name:    "max-size",
			Usage:   "largest accepted image in bytes",
			Sources: configSources(ns, "max-size", path),
			Value:   preload.DefaultMaxSize,
		},
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "mirror",
			Aliases: []string{"m"},
			Usage:   "where preloaded images persist between runs (none, disk, badger, s3)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CATPRELOAD_MIRROR")),
			Value:   "disk",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, MirrorValidator)
			},
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "badger-dir",
			Usage:   "database directory for --mirror=badger (default <cache dir>/badger)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CATPRELOAD_BADGER_DIR")),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "bucket",
			Usage:   "S3 bucket for --mirror=s3",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CATPRELOAD_BUCKET")),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "prefix",
			Usage:   "S3 key prefix for --mirror=s3",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CATPRELOAD_PREFIX")),
			Value:   "catpreload",
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "region",
			Usage:   "AWS region for --mirror=s3",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AWS_REGION")),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "profile",
			Usage:   "AWS shared config profile for --mirror=s3",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AWS_PROFILE")),
		}),
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "endpoint",
			Usage:   "S3 compatible endpoint URL",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CATPRELOAD_S3_ENDPOINT")),
		}),
		&cli.BoolWithInverseFlag{
			Name:    "dedupe",
			Usage:   "share one fetch between concurrent loads of the same image",
			Sources: configSources(ns, "dedupe", path),
			Value:   true,
		},
		NameSpacedValueChainFlagFromConfigFile(ns, path, &cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "write Prometheus metrics for the run to this file",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CATPRELOAD_METRICS_FILE")),
		}),
		&cli.BoolWithInverseFlag{
			Name:    "progress",
			Aliases: []string{"p"},
			Usage:   "draw a progress bar on stderr when it is a terminal",
			Sources: configSources(ns, "progress", path),
			Value:   true,
		},
	}
}

// NewCatalogFlags returns the flags that pick a catalog out of a file.
func NewCatalogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "index",
			Aliases: []string{"i"},
			Usage:   "which catalog to use when the file holds several",
			Value:   0,
		},
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "gjson path selecting the catalog document (JSON files only)",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	flag.Sources = withConfig(flag.Sources, ns, flag.Name, path)
	return flag
}

// configSources is a value chain made only of the namespaced and global
// config file keys.
func configSources(ns, key, path string) cli.ValueSourceChain {
	return withConfig(cli.NewValueSourceChain(), ns, key, path)
}

func withConfig(chain cli.ValueSourceChain, ns, key, path string) cli.ValueSourceChain {
	chain.Chain = append(chain.Chain,
		yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)),
		yaml.YAML(key, altsrc.StringSourcer(path)),
	)
	return chain
}
