// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/staranto/catpreload/internal/attrs"
	"github.com/staranto/catpreload/internal/config"
	"github.com/staranto/catpreload/internal/filters"
)

// Options controls how a result set is emitted.
type Options struct {
	Format string
	Filter string
	Sort   string
	Titles bool
	Color  bool
}

// OptionsFromCommand reads the global output flags from cmd.
func OptionsFromCommand(cmd *cli.Command) Options {
	return Options{
		Format: cmd.String("output"),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}
}

// SliceDiceSpit filters, sorts and renders rows. Only the included attrs are
// emitted, in order, under their OutputKey.
func SliceDiceSpit(rows []map[string]any, al attrs.AttrList, opts Options, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	// Filter before projecting so filters may reference any row field.
	dataset := filters.Apply(rows, opts.Filter)
	SortDataset(dataset, opts.Sort)
	columns := al.Included()
	dataset = project(dataset, columns)

	switch opts.Format {
	case "json":
		b, err := json.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to marshal json output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml output: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		TableWriter(dataset, columns, opts, w)
		return nil
	}
}

// project keeps only columns from each row, keyed by OutputKey and with each
// attr's transform applied. json and yaml would otherwise leak internal
// fields.
func project(rows []map[string]any, columns attrs.AttrList) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		p := make(map[string]any, len(columns))
		for _, c := range columns {
			p[c.OutputKey] = c.Transform(row[c.Key])
		}
		out = append(out, p)
	}
	return out
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options.
// Rows are expected to be projected already, so cells are looked up by
// OutputKey.
func TableWriter(resultSet []map[string]any, columns attrs.AttrList, opts Options, w io.Writer) {
	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 1)
	log.Debugf("padding: %v", pad)

	rows := make([][]string, 0, len(resultSet))
	for _, result := range resultSet {
		row := make([]string, 0, len(columns))
		for _, c := range columns {
			row = append(row, InterfaceToString(result[c.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		titles := make([]string, 0, len(columns))
		for _, c := range columns {
			titles = append(titles, c.OutputKey)
		}
		t = t.Headers(titles...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value any, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return fmt.Sprintf("%.0f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
