package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. Numeric columns align right; path
// columns are shortened from the left so the file name stays visible;
// free-text columns wrap at wrap characters.
type column struct {
	title   string
	numeric bool
	path    bool
	wrap    int
}

const (
	pathColumnWidth  = 48
	errorColumnWidth = 60
)

var (
	summaryColumns = []column{
		{title: "File", path: true},
		{title: "Status"},
		{title: "Lang"},
		{title: "Script"},
		{title: "Captions", numeric: true},
		{title: "Elapsed", numeric: true},
		{title: "Error", wrap: errorColumnWidth},
	}
	historyColumns = []column{
		{title: "ID", numeric: true},
		{title: "When"},
		{title: "Status"},
		{title: "File", path: true},
		{title: "Captions", numeric: true},
		{title: "Lang"},
		{title: "Script"},
		{title: "Elapsed", numeric: true},
		{title: "Error", wrap: errorColumnWidth},
	}
	reportColumns = []column{
		{title: "Field"},
		{title: "Value", path: true},
	}
)

func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		configs[i] = col.config(i + 1)
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

func (c column) config(number int) table.ColumnConfig {
	cfg := table.ColumnConfig{Number: number, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
	if c.numeric {
		cfg.Align = text.AlignRight
	}
	if c.path {
		cfg.Transformer = func(val any) string {
			s, _ := val.(string)
			return keepTail(s, pathColumnWidth)
		}
	}
	if c.wrap > 0 {
		cfg.WidthMax = c.wrap
		cfg.WidthMaxEnforcer = text.WrapSoft
	}
	return cfg
}

// keepTail shortens s to width characters by dropping its start.
func keepTail(s string, width int) string {
	runes := []rune(s)
	if width <= 1 || len(runes) <= width {
		return s
	}
	return "…" + string(runes[len(runes)-width+1:])
}
