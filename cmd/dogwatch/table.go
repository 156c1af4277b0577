package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"dogwatch/internal/pipeline"
)

const timeRounding = 100 * time.Millisecond

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printSummary renders the run totals, as a table on a terminal and as plain
// key: value lines when output is piped.
func printSummary(out io.Writer, summary *pipeline.Summary) {
	rows := [][]string{
		{"Updated", strconv.Itoa(summary.Updated)},
		{"Unchanged", strconv.Itoa(summary.Unchanged)},
		{"No match", strconv.Itoa(summary.NoMatch)},
		{"No warnings", strconv.Itoa(summary.NoWarnings)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Total", strconv.Itoa(summary.Total())},
	}

	if stdoutIsTerminal() {
		fmt.Fprintln(out, renderTable([]string{"Outcome", "Movies"}, rows))
	} else {
		for _, row := range rows {
			fmt.Fprintf(out, "%s: %s\n", row[0], row[1])
		}
	}
	fmt.Fprintf(out, "Processed %d movies in %s\n", summary.Total(), summary.Elapsed.Round(timeRounding))

	for _, result := range summary.Results {
		if result.Err == nil {
			continue
		}
		fmt.Fprintf(out, "  failed: %s (%s): %v\n", result.Item.Label(), result.Library, result.Err)
	}
}

func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i > 0 {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
