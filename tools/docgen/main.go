// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/catpreload/internal/command"
)

// Minimal doc generator:
// - Walks the catpreload command tree
// - Generates:
//   - docs/commands/catpreload-<cmd>.md as the markdown reference
//   - docs/man/share/man1/catpreload-<cmd>.1 via md2man
//   - docs/tldr/catpreload-<cmd>.md from the usage lines

func main() {
	var (
		repoRoot           string
		writeOnlyIfChanged bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&writeOnlyIfChanged, "only-if-changed", true, "only write files if content changed")
	flag.Parse()

	// Keep the user's config out of generated defaults.
	os.Setenv("CATPRELOAD_CFG", filepath.Join(os.TempDir(), "catpreload-docgen-none.yaml"))

	app, err := command.InitApp(context.Background(), []string{"catpreload"})
	if err != nil {
		fatalf("building command tree: %v", err)
	}

	processed, err := generate(app, repoRoot, writeOnlyIfChanged)
	if err != nil {
		fatalf("%v", err)
	}
	if processed == 0 {
		fatalf("no commands found")
	}
}

// generate writes the markdown, man and tldr pages for every subcommand of
// app under root and returns how many commands were processed.
func generate(app *cli.Command, root string, onlyIfChanged bool) (int, error) {
	mdOutDir := filepath.Join(root, "docs", "commands")
	manOutDir := filepath.Join(root, "docs", "man", "share", "man1")
	tldrOutDir := filepath.Join(root, "docs", "tldr")

	for _, d := range []string{mdOutDir, manOutDir, tldrOutDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return 0, fmt.Errorf("creating output dir %s: %w", d, err)
		}
	}

	var processed int
	for _, cmd := range app.Commands {
		name := app.Name + "-" + cmd.Name
		md := renderMarkdown(app.Name, cmd)

		if err := writeFileIfChanged(filepath.Join(mdOutDir, name+".md"), []byte(md), onlyIfChanged); err != nil {
			return processed, fmt.Errorf("writing markdown for %s: %w", cmd.Name, err)
		}

		manBytes := md2man.Render([]byte(md))
		if err := writeFileIfChanged(filepath.Join(manOutDir, name+".1"), manBytes, onlyIfChanged); err != nil {
			return processed, fmt.Errorf("writing man page for %s: %w", cmd.Name, err)
		}

		tldr := buildTLDR(app.Name, cmd)
		if err := writeFileIfChanged(filepath.Join(tldrOutDir, name+".md"), []byte(tldr), onlyIfChanged); err != nil {
			return processed, fmt.Errorf("writing TLDR for %s: %w", cmd.Name, err)
		}

		processed++
	}
	return processed, nil
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func writeFileIfChanged(path string, new []byte, onlyIfChanged bool) error {
	if !onlyIfChanged {
		return os.WriteFile(path, new, 0o644)
	}
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.WriteFile(path, new, 0o644)
		}
		return err
	}
	if bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(new)) {
		return nil
	}
	return os.WriteFile(path, new, 0o644)
}

type usager interface {
	GetUsage() string
}

type envVarer interface {
	GetEnvVars() []string
}

// renderMarkdown produces a pandoc style page md2man understands.
func renderMarkdown(app string, cmd *cli.Command) string {
	var b strings.Builder
	title := strings.ToUpper(app + "-" + cmd.Name)
	fmt.Fprintf(&b, "%% %s 1\n\n", title)

	b.WriteString("# NAME\n\n")
	fmt.Fprintf(&b, "%s-%s - %s\n\n", app, cmd.Name, cmd.Usage)

	b.WriteString("# SYNOPSIS\n\n")
	synopsis := cmd.UsageText
	if synopsis == "" {
		synopsis = app + " " + cmd.Name + " [options]"
	}
	fmt.Fprintf(&b, "**%s**\n\n", synopsis)

	if len(cmd.Flags) == 0 {
		return b.String()
	}

	b.WriteString("# OPTIONS\n\n")
	for _, f := range cmd.Flags {
		names := f.Names()
		dashed := make([]string, 0, len(names))
		for _, n := range names {
			if len(n) == 1 {
				dashed = append(dashed, "-"+n)
			} else {
				dashed = append(dashed, "--"+n)
			}
		}
		fmt.Fprintf(&b, "**%s**\n", strings.Join(dashed, "**, **"))

		var usage string
		if u, ok := f.(usager); ok {
			usage = u.GetUsage()
		}
		if e, ok := f.(envVarer); ok && len(e.GetEnvVars()) > 0 {
			usage += fmt.Sprintf(" (env %s)", strings.Join(e.GetEnvVars(), ", "))
		}
		fmt.Fprintf(&b, ": %s\n\n", strings.TrimSpace(usage))
	}
	return b.String()
}

func buildTLDR(app string, cmd *cli.Command) string {
	var b strings.Builder
	b.WriteString("# " + app + "-" + cmd.Name + "\n\n")
	if cmd.Usage != "" {
		b.WriteString("> " + cmd.Usage + ".\n")
	} else {
		b.WriteString("> " + app + " " + cmd.Name + "\n")
	}
	b.WriteString("> More information: https://github.com/staranto/catpreload.\n\n")

	if cmd.UsageText != "" {
		desc := "Run the command"
		if cmd.Usage != "" {
			desc = strings.ToUpper(cmd.Usage[:1]) + cmd.Usage[1:]
		}
		b.WriteString("- " + desc + ":\n\n")
		b.WriteString("`" + sanitizeCommand(cmd.UsageText) + "`\n\n")
	}

	b.WriteString("- Show help for the command:\n\n")
	b.WriteString("`" + app + " " + cmd.Name + " --help`\n")
	return b.String()
}

func sanitizeCommand(s string) string {
	// Replace upper case placeholders with {{...}}
	fields := strings.Fields(s)
	for i, f := range fields {
		if f != "" && strings.ToUpper(f) == f && strings.ToLower(f) != f {
			fields[i] = "{{" + strings.ToLower(f) + "}}"
		}
	}
	return strings.Join(fields, " ")
}
