package harness

import (
	"fmt"
	"io"
)

// columnWidth is the width of every table column.
const columnWidth = 14

// FailureMarker replaces the timings of a failed size.
const FailureMarker = "FAILED"

// WriteTable writes the timing table: a header, then one row per size with
// the size and the init, reduce, and total times in milliseconds.
func WriteTable(w io.Writer, report *Report) error {
	_, err := fmt.Fprintf(w, "%*s %*s %*s %*s\n",
		columnWidth, "size", columnWidth, "init (ms)",
		columnWidth, "reduce (ms)", columnWidth, "total (ms)")
	if err != nil { return err }

	for _, row := range report.Rows {
		if row.Failed() {
			_, err = fmt.Fprintf(w, "%*d %*s %*s %*s\n",
				columnWidth, row.Size, columnWidth, FailureMarker,
				columnWidth, "-", columnWidth, "-")
		} else {
			_, err = fmt.Fprintf(w, "%*d %*.3f %*.3f %*.3f\n",
				columnWidth, row.Size, columnWidth, row.Init,
				columnWidth, row.Reduce, columnWidth, row.Total)
		}
		if err != nil { return err }
	}
	return nil
}
