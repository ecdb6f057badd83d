package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/ozzus/club-sanctions/internal/domain/models"
)

func formatFines(v float64) string {
	return fmt.Sprintf("%.2f€", v)
}

func renderReport(w io.Writer, report models.Report) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s sanctions (%s)", report.Kind, report.Source))
	t.AppendHeader(table.Row{"#", "Club", "City", "Sanctions", "Fines", "Suspension Days"})

	for i, row := range report.Rows {
		t.AppendRow(table.Row{
			i + 1,
			row.ClubGroup,
			row.City,
			row.Quantity,
			formatFines(row.Fines),
			row.SuspensionDays,
		})
	}

	t.AppendFooter(table.Row{
		"",
		"Total",
		"",
		report.Totals.Quantity,
		formatFines(report.Totals.Fines),
		report.Totals.SuspensionDays,
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	t.Render()
}
