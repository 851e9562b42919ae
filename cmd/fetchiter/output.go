package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/ygrebnov/distributor"
	"github.com/ygrebnov/distributor/metrics"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func sortAssignments(rows []assignment) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Consumer != rows[j].Consumer {
			return rows[i].Consumer < rows[j].Consumer
		}
		return rows[i].Item.ID < rows[j].Item.ID
	})
}

// writeJSON emits one line per assignment followed by a summary line.
func writeJSON(w io.Writer, rows []assignment, s distributor.Summary) error {
	sortAssignments(rows)
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return enc.Encode(struct {
		Summary distributor.Summary `json:"summary"`
	}{s})
}

func writeTables(w io.Writer, rows []assignment, s distributor.Summary, readings []metrics.Reading) {
	sortAssignments(rows)

	items := table.NewWriter()
	items.SetStyle(table.StyleRounded)
	items.AppendHeader(table.Row{"Consumer", "ID", "Fetch", "Emit", "On parse failure"})
	for _, row := range rows {
		items.AppendRow(table.Row{
			row.Consumer,
			row.Item.ID,
			row.Item.Fetch.Name + ":" + row.Item.Fetch.Key,
			row.Item.Emit.Name + ":" + row.Item.Emit.Key,
			row.Item.OnParseFailure.String(),
		})
	}
	items.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	fmt.Fprintln(w, items.Render())

	summary := table.NewWriter()
	summary.SetStyle(table.StyleRounded)
	summary.AppendHeader(table.Row{"Field", "Value"})
	summary.AppendRows([]table.Row{
		{"run id", s.RunID},
		{"admitted", s.Admitted},
		{"consumed", s.Consumed},
		{"markers", s.Markers},
		{"elapsed", s.Elapsed.String()},
	})
	for _, r := range readings {
		value := strconv.FormatFloat(r.Value, 'f', -1, 64)
		if r.Kind == "histogram" {
			value = fmt.Sprintf("%s (n=%d)", value, r.Count)
		}
		summary.AppendRow(table.Row{r.Name, value})
	}
	summary.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	fmt.Fprintln(w, summary.Render())
}
