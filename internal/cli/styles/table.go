package styles

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dumberproto/internal/domain/entity"
)

// NewStyledTable creates a themed table model. Commands print its View
// without running a program, so the table is never focused.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	// An unfocused table still styles its cursor row.
	s.Selected = lipgloss.NewStyle().Foreground(theme.Text)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// ResourceTableColumns returns columns for a module's resource table.
func ResourceTableColumns() []table.Column {
	return []table.Column{
		{Title: "Type", Width: 16},
		{Title: "Name", Width: 28},
		{Title: "Lang", Width: 6},
		{Title: "Size", Width: 10},
		{Title: "URL", Width: 40},
	}
}

// ResourceRow is one line of the resource table.
type ResourceRow struct {
	Type entity.ResourceID
	Name entity.ResourceID
	Lang uint16
	Size int
	URL  string
}

// ToRow converts to table.Row.
func (r ResourceRow) ToRow() table.Row {
	return table.Row{r.Type.String(), r.Name.String(), strconv.Itoa(int(r.Lang)), FormatSize(r.Size), r.URL}
}

// RenderResourceTable renders rows as a table sized to fit them.
func RenderResourceTable(theme *Theme, rows []ResourceRow) string {
	cols := ResourceTableColumns()
	width := 0
	for _, c := range cols {
		width += c.Width + 2
	}

	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, r.ToRow())
	}

	// Room for the header and its border; the viewport pads the rest.
	t := NewStyledTable(theme, cols, tableRows, width, len(rows)+3)
	return strings.TrimRight(t.View(), " \n")
}

// FormatSize formats a byte count for display.
func FormatSize(n int) string {
	switch {
	case n >= 1<<20:
		return formatFloat(float64(n)/(1<<20)) + " MiB"
	case n >= 1<<10:
		return formatFloat(float64(n)/(1<<10)) + " KiB"
	default:
		return strconv.Itoa(n) + " B"
	}
}

// formatFloat formats a float with one decimal.
func formatFloat(f float64) string {
	i := int(f * 10)
	whole := i / 10
	dec := i % 10
	if dec == 0 {
		return strconv.Itoa(whole)
	}
	return strconv.Itoa(whole) + "." + strconv.Itoa(dec)
}
