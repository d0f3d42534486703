// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package progress draws a single line progress bar for catalog preloads.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"
)

const barWidth = 40

// Reporter counts completed loads and redraws the bar on each one. It is
// safe for concurrent use; Step is meant to be passed as an onProgress
// callback.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	bar     progress.Model
	label   string
	total   int
	done    int
	enabled bool
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// New returns a Reporter for total loads. Nothing is drawn unless enabled.
func New(w io.Writer, label string, total int, enabled bool) *Reporter {
	return &Reporter{
		out:     w,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		label:   label,
		total:   total,
		enabled: enabled && total > 0,
	}
}

// Step records one completed load.
func (r *Reporter) Step() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done < r.total {
		r.done++
	}
	if !r.enabled {
		return
	}
	fmt.Fprintf(r.out, "\r%s %s %d/%d", r.label, r.bar.ViewAs(float64(r.done)/float64(r.total)), r.done, r.total)
}

// Done ends the progress line.
func (r *Reporter) Done() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enabled {
		fmt.Fprintln(r.out)
	}
}

// Count returns the number of completed loads.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}
