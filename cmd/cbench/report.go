package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

func report(w io.Writer, results []result) {
	if len(results) == 0 {
		return
	}
	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := ok("ok")
		if r.err != nil {
			status = fail("FAIL")
		}
		rows = append(rows, []string{
			r.engine,
			r.phase,
			fmt.Sprintf("%d", r.ops),
			fmt.Sprintf("%.3f", float64(r.elapsed.Microseconds())/1000),
			fmt.Sprintf("%.1f", nsPerOp(r)),
			status,
			r.info,
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Engine", "Phase", "Ops", "Time(ms)", "ns/op", "Check", "Info"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func nsPerOp(r result) float64 {
	if r.ops == 0 {
		return 0
	}
	return float64(r.elapsed.Nanoseconds()) / float64(r.ops)
}
