// Package export writes finished scheduling results to side artifacts
// (roster CSV, result JSON). Export failures never invalidate the computed
// schedule or compliance result; callers keep the Result and report the
// ExportError alongside it.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/hupe1980/shiftmesh"
)

// ExportError marks a failed side-artifact write. The scheduling Result it
// was derived from remains valid.
type ExportError struct {
	Format string
	Err    error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s failed: %v", e.Format, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ExportError) Unwrap() error { return e.Err }

// WriteRosterCSV writes the result's roster rows as CSV, one assignment per
// line in the schedule's canonical order.
func WriteRosterCSV(w io.Writer, result *shiftmesh.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"date", "employee_id", "employee", "station", "shift", "start_hour", "end_hour", "hours"}
	if err := cw.Write(header); err != nil {
		return &ExportError{Format: "csv", Err: err}
	}
	for _, row := range result.Roster {
		record := []string{
			row.Date,
			row.EmployeeID,
			row.Employee,
			row.Station,
			row.ShiftCode,
			strconv.Itoa(row.StartHour),
			strconv.Itoa(row.EndHour),
			strconv.FormatFloat(row.Hours, 'f', 1, 64),
		}
		if err := cw.Write(record); err != nil {
			return &ExportError{Format: "csv", Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return &ExportError{Format: "csv", Err: err}
	}
	return nil
}

// WriteResultJSON writes the full result as indented JSON.
func WriteResultJSON(w io.Writer, result *shiftmesh.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return &ExportError{Format: "json", Err: err}
	}
	return nil
}
