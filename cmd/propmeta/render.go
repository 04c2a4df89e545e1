package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	pluralizer "github.com/gertd/go-pluralize"
)

var pluralizeClient = pluralizer.NewClient()

// quantity renders n with noun in the matching number, e.g. "1 property",
// "3 readable properties".
func quantity(n int, noun string, qualifiers ...string) string {
	words := append([]string{strconv.Itoa(n)}, qualifiers...)
	words = append(words, pluralizeClient.Pluralize(noun, n, false))
	return strings.Join(words, " ")
}

// table renders aligned columns with a colored header.
type table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

func newTable(w io.Writer, noColor bool, headers ...string) *table {
	return &table{writer: w, headers: headers, noColor: noColor}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render() {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	bold := color.New(color.Bold, color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if t.noColor {
		bold.DisableColor()
		gray.DisableColor()
	}

	for i, header := range t.headers {
		bold.Fprint(t.writer, padRight(header, widths[i]))
		if i < len(t.headers)-1 {
			fmt.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	for i, width := range widths {
		gray.Fprint(t.writer, strings.Repeat("─", width))
		if i < len(widths)-1 {
			gray.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if i < len(row)-1 {
				fmt.Fprint(t.writer, padRight(cell, widths[i])+"  ")
			} else {
				fmt.Fprint(t.writer, cell)
			}
		}
		fmt.Fprintln(t.writer)
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func header(w io.Writer, title string, noColor bool) {
	bold := color.New(color.Bold, color.FgCyan)
	if noColor {
		bold.DisableColor()
	}
	bold.Fprintln(w, title)
}
