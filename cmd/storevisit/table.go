package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"storevisit/internal/findings"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable lays out rows under headers. Short rows are padded with blanks;
// cells wider than maxWidth wrap.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment, maxWidth int) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		cc := table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
		if maxWidth > 0 {
			cc.WidthMax = maxWidth
		}
		columnConfigs = append(columnConfigs, cc)
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// unclampedMarker flags keyword confidences the linear policy pushed past 1.0.
const unclampedMarker = "*"

// renderRecordTable lists findings with repeated category cells merged and a
// footer carrying the count and mean confidence. Times are shown when
// withTime is set.
func renderRecordTable(records []findings.Record, withTime bool, maxWidth int) string {
	style := table.StyleRounded
	style.Format.Footer = text.FormatDefault
	tw := table.NewWriter()
	tw.SetStyle(style)

	header := table.Row{"Category", "Text", "Confidence"}
	if withTime {
		header = append(header, "Recorded")
	}
	tw.AppendHeader(header)

	var sum float64
	unclamped := 0
	for _, rec := range records {
		sum += rec.Confidence
		conf := formatConfidence(rec.Confidence)
		if rec.Confidence > 1.0 {
			conf += unclampedMarker
			unclamped++
		}
		row := table.Row{rec.Category, rec.Text, conf}
		if withTime {
			row = append(row, rec.RecordedAt.Local().Format(timeLayout))
		}
		tw.AppendRow(row)
	}

	footer := table.Row{fmt.Sprintf("%d records", len(records)), "", ""}
	if len(records) > 0 {
		footer[2] = "avg " + formatConfidence(sum/float64(len(records)))
	}
	if unclamped > 0 {
		footer[1] = fmt.Sprintf("%s %d above 1.00", unclampedMarker, unclamped)
	}
	if withTime {
		footer = append(footer, "")
	}
	tw.AppendFooter(footer)

	configs := []table.ColumnConfig{
		{Number: 1, AutoMerge: true, VAlign: text.VAlignTop},
		{Number: 2, WidthMax: maxWidth},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	}
	if maxWidth <= 0 {
		configs[1].WidthMax = 0
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
