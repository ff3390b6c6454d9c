package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shiftmesh"
)

func exportResult() *shiftmesh.Result {
	return &shiftmesh.Result{
		RunID:     "run-1",
		StoreID:   "S-01",
		StoreName: "Central",
		Phase:     "finalized",
		Roster: []shiftmesh.AssignmentRecord{
			{ID: "A-0001", Date: "2025-03-10", EmployeeID: "E-01", Employee: "Alice", Station: "counter", ShiftCode: "OPEN", StartHour: 9, EndHour: 13, Hours: 4},
			{ID: "A-0002", Date: "2025-03-10", EmployeeID: "E-02", Employee: "Bob", Station: "grill", ShiftCode: "CLOSE", StartHour: 13, EndHour: 17, Hours: 4},
		},
		Compliance: shiftmesh.ComplianceReport{Score: 100, IsCompliant: true},
	}
}

func TestWriteRosterCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRosterCSV(&buf, exportResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,employee_id,employee,station,shift,start_hour,end_hour,hours", lines[0])
	assert.Equal(t, "2025-03-10,E-01,Alice,counter,OPEN,9,13,4.0", lines[1])
	assert.Equal(t, "2025-03-10,E-02,Bob,grill,CLOSE,13,17,4.0", lines[2])
}

func TestWriteRosterCSVEmptyRoster(t *testing.T) {
	var buf bytes.Buffer
	res := exportResult()
	res.Roster = nil

	require.NoError(t, WriteRosterCSV(&buf, res))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "header only")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteRosterCSVFailure(t *testing.T) {
	err := WriteRosterCSV(failingWriter{}, exportResult())
	require.Error(t, err)

	var ee *ExportError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "csv", ee.Format)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWriteResultJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResultJSON(&buf, exportResult()))

	var decoded shiftmesh.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "S-01", decoded.StoreID)
	assert.Len(t, decoded.Roster, 2)
	assert.True(t, decoded.Compliance.IsCompliant)
}

func TestWriteResultJSONFailure(t *testing.T) {
	err := WriteResultJSON(failingWriter{}, exportResult())
	var ee *ExportError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "json", ee.Format)
}
