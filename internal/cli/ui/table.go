// Package ui renders the weft CLI's terminal output: aligned tables for
// session inspection and colored reports for dump failures.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Table renders rows under a header with columns padded to the widest cell.
type Table struct {
	w       io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// NewTable creates a table with the given column headers.
func NewTable(w io.Writer, noColor bool, headers ...string) *Table {
	return &Table{w: w, headers: headers, noColor: noColor}
}

// AddRow appends one row. Extra cells beyond the header count are dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	header := color.New(color.Bold, color.FgCyan)
	rule := color.New(color.FgHiBlack)
	if t.noColor {
		header.DisableColor()
		rule.DisableColor()
	}

	for i, h := range t.headers {
		if i == len(t.headers)-1 {
			header.Fprint(t.w, h)
			break
		}
		header.Fprint(t.w, padRight(h, widths[i]))
		fmt.Fprint(t.w, "  ")
	}
	fmt.Fprintln(t.w)

	for i, width := range widths {
		rule.Fprint(t.w, strings.Repeat("─", width))
		if i < len(widths)-1 {
			rule.Fprint(t.w, "  ")
		}
	}
	fmt.Fprintln(t.w)

	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if i == len(widths)-1 || i == len(row)-1 {
				fmt.Fprint(t.w, cell)
				break
			}
			fmt.Fprint(t.w, padRight(cell, widths[i]))
			fmt.Fprint(t.w, "  ")
		}
		fmt.Fprintln(t.w)
	}
}

// KeyValueTable renders key-value pairs with the keys right-padded to align
// the values.
type KeyValueTable struct {
	w       io.Writer
	rows    [][2]string
	noColor bool
}

// NewKeyValueTable creates an empty key-value table.
func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{w: w, noColor: noColor}
}

// Add appends one pair.
func (t *KeyValueTable) Add(key, value string) {
	t.rows = append(t.rows, [2]string{key, value})
}

// Render writes the pairs.
func (t *KeyValueTable) Render() {
	width := 0
	for _, row := range t.rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}

	keyColor := color.New(color.Bold)
	if t.noColor {
		keyColor.DisableColor()
	}
	for _, row := range t.rows {
		keyColor.Fprint(t.w, padRight(row[0], width))
		fmt.Fprintf(t.w, "  %s\n", row[1])
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
