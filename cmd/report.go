package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"myfind/internal/finder"
	"myfind/internal/tui"
)

// printReport writes matches to out and per-target notices to errOut, in
// target order. Styling is applied per stream only when that stream is a
// terminal, so piped output carries file names byte for byte.
func printReport(out, errOut io.Writer, report *finder.Report) {
	outStyled, errStyled := isTerminal(out), isTerminal(errOut)
	for _, entry := range report.Entries {
		if f := entry.Outcome.Failure; f != nil {
			fmt.Fprintf(errOut, "%s %s\n",
				paint(errorStyle, entry.Target+": error:", errStyled),
				paint(failureStyle, f.Error(), errStyled),
			)
			continue
		}
		if len(entry.Outcome.Records) == 0 {
			fmt.Fprintln(errOut, paint(dimStyle, entry.Target+": no matches", errStyled))
			continue
		}
		for _, rec := range entry.Outcome.Records {
			fmt.Fprintln(out, formatRecord(rec, outStyled))
		}
	}
}

func formatRecord(rec finder.Record, styled bool) string {
	return paint(workerStyle, strconv.FormatUint(rec.WorkerID, 10), styled) + ": " +
		paint(nameStyle, rec.Name, styled) + ": " +
		paint(pathStyle, rec.Path, styled)
}

// paint renders s with style. Render pads multi-line text into a block, so
// anything containing a newline is left as is.
func paint(style lipgloss.Style, s string, styled bool) string {
	if !styled || strings.ContainsRune(s, '\n') {
		return s
	}
	return style.Render(s)
}

func renderRunSummary(report *finder.Report, isolation string, elapsed time.Duration) string {
	failed := len(report.Failures())
	rows := []tui.SummaryRow{
		{Label: "Targets searched", Value: strconv.Itoa(len(report.Entries))},
		{Label: "Files matched", Value: strconv.Itoa(report.Matches())},
		{Label: "Failed workers", Value: strconv.Itoa(failed), Alert: failed > 0},
		{Label: "Isolation", Value: isolation},
		{Label: "Elapsed", Value: elapsed.Round(time.Millisecond).String()},
	}
	return tui.RenderSummary(rows)
}

// Report styles keep tabs, which are legal in file names.
var (
	baseStyle    = lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	workerStyle  = baseStyle.Foreground(tui.ColorWorker)
	nameStyle    = baseStyle.Bold(true).Foreground(tui.ColorName)
	pathStyle    = baseStyle.Foreground(tui.ColorPath)
	dimStyle     = baseStyle.Foreground(tui.ColorDim)
	errorStyle   = baseStyle.Bold(true).Foreground(tui.ColorError)
	failureStyle = baseStyle.Foreground(tui.ColorWarn)
)
