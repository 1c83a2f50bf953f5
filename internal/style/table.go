package style

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Alignment controls how a cell is padded within its column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// Column describes one table column.
type Column struct {
	Name  string
	Width int
	Align Alignment
}

// Table renders fixed-width, left-indented rows for list commands.
type Table struct {
	columns   []Column
	rows      [][]string
	headerSep bool
	indent    string
}

// NewTable creates a table with a header separator and two-space indent.
func NewTable(columns ...Column) *Table {
	return &Table{
		columns:   columns,
		headerSep: true,
		indent:    "  ",
	}
}

// SetIndent sets the prefix written before every line.
func (t *Table) SetIndent(indent string) *Table {
	t.indent = indent
	return t
}

// SetHeaderSeparator toggles the rule under the header.
func (t *Table) SetHeaderSeparator(on bool) *Table {
	t.headerSep = on
	return t
}

// AddRow appends a row, padding missing cells with empty strings.
func (t *Table) AddRow(values ...string) *Table {
	row := make([]string, len(t.columns))
	copy(row, values)
	t.rows = append(t.rows, row)
	return t
}

// Render returns the table as a newline-terminated string.
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(t.indent)
	for i, col := range t.columns {
		if i > 0 {
			b.WriteString(" ")
		}
		name := truncate(col.Name, col.Width)
		b.WriteString(t.pad(Bold.Render(name), name, col.Width, col.Align))
	}
	b.WriteString("\n")

	if t.headerSep {
		b.WriteString(t.indent)
		for i, col := range t.columns {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(Dim.Render(strings.Repeat("─", col.Width)))
		}
		b.WriteString("\n")
	}

	for _, row := range t.rows {
		b.WriteString(t.indent)
		for i, col := range t.columns {
			if i > 0 {
				b.WriteString(" ")
			}
			plain := truncate(stripAnsi(row[i]), col.Width)
			styled := row[i]
			if plain != stripAnsi(row[i]) {
				styled = plain
			}
			b.WriteString(t.pad(styled, plain, col.Width, col.Align))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pad pads styled to width using the display width of plain.
func (t *Table) pad(styled, plain string, width int, align Alignment) string {
	w := runewidth.StringWidth(plain)
	if w >= width {
		return styled
	}
	gap := width - w
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + styled
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + styled + strings.Repeat(" ", gap-left)
	default:
		return styled + strings.Repeat(" ", gap)
	}
}

func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
