package importexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/clinicdesk/clinicdesk/internal/patients"
)

// csvColumns is the export header and the canonical import column set.
var csvColumns = []string{"name", "phone", "email", "notes"}

// ImportCSV reads a contact sheet with a header row. Column order is
// taken from the header; name and phone are required per row, email and
// notes are optional. Rows missing name or phone are counted as skipped
// rather than failing the import.
func ImportCSV(r io.Reader) ([]patients.Client, Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, Report{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if len(records) == 0 {
		return nil, Report{}, ErrNoValidPatients
	}

	cols := make(map[string]int)
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var (
		clients []patients.Client
		report  Report
	)
	for _, row := range records[1:] {
		name := field(row, "name")
		phone := field(row, "phone")
		if name == "" || phone == "" {
			report.Skipped++
			continue
		}
		clients = append(clients, patients.Client{
			Name:             name,
			Phone:            phone,
			Email:            field(row, "email"),
			Notes:            field(row, "notes"),
			Status:           patients.StatusActive,
			TreatmentHistory: []patients.TreatmentRecord{},
		})
		report.Accepted++
	}
	if report.Accepted == 0 {
		return nil, report, ErrNoValidPatients
	}
	return clients, report, nil
}

// ExportCSV writes the collection as `name,phone,email,notes` with a
// header row. Output round-trips through ImportCSV modulo IDs.
func ExportCSV(w io.Writer, clients []patients.Client) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvColumns); err != nil {
		return err
	}
	for _, c := range clients {
		if err := writer.Write([]string{c.Name, c.Phone, c.Email, c.Notes}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
