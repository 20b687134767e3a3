package importexport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/internal/patients"
)

func TestImportCSV(t *testing.T) {
	input := strings.Join([]string{
		"name,phone,email,notes",
		"Dana Levi,0501234567,dana@example.com,prefers evenings",
		"Noa Bar,0529876543,,",
		",0500000000,,",
		"No Phone,,x@example.com,",
	}, "\n")

	clients, report, err := ImportCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Report{Accepted: 2, Skipped: 2}, report)
	require.Len(t, clients, 2)

	assert.Equal(t, "Dana Levi", clients[0].Name)
	assert.Equal(t, "0501234567", clients[0].Phone)
	assert.Equal(t, "dana@example.com", clients[0].Email)
	assert.Equal(t, "prefers evenings", clients[0].Notes)
	assert.Equal(t, patients.StatusActive, clients[0].Status)
	assert.NotNil(t, clients[0].TreatmentHistory)
}

func TestImportCSVColumnOrderFromHeader(t *testing.T) {
	input := "phone,name\n0501234567,Dana Levi\n"
	clients, _, err := ImportCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Dana Levi", clients[0].Name)
	assert.Equal(t, "0501234567", clients[0].Phone)
}

func TestImportCSVNoValidRows(t *testing.T) {
	_, report, err := ImportCSV(strings.NewReader("name,phone\n,\n,0500000000\n"))
	assert.ErrorIs(t, err, ErrNoValidPatients)
	assert.Equal(t, 2, report.Skipped)
}

func TestImportCSVUnparseable(t *testing.T) {
	_, _, err := ImportCSV(strings.NewReader("name,phone\n\"unterminated,0501234567\n"))
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestCSVRoundTrip(t *testing.T) {
	original := []patients.Client{
		{Name: "Dana Levi", Phone: "0501234567", Email: "dana@example.com", Notes: "vip"},
		{Name: "Noa Bar", Phone: "0529876543"},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, original))

	imported, report, err := ImportCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Accepted)
	require.Len(t, imported, len(original))
	for i := range original {
		assert.Equal(t, original[i].Name, imported[i].Name)
		assert.Equal(t, original[i].Phone, imported[i].Phone)
		assert.Equal(t, original[i].Email, imported[i].Email)
		assert.Equal(t, original[i].Notes, imported[i].Notes)
	}
}

func TestImportVCard(t *testing.T) {
	input := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:Dana Levi",
		"TEL;TYPE=CELL:0501234567",
		"EMAIL:dana@example.com",
		"NOTE:prefers evenings",
		"END:VCARD",
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:Missing Phone",
		"END:VCARD",
	}, "\r\n")

	clients, report, err := ImportVCard(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Report{Accepted: 1, Skipped: 1}, report)
	require.Len(t, clients, 1)
	assert.Equal(t, "Dana Levi", clients[0].Name)
	assert.Equal(t, "0501234567", clients[0].Phone)
	assert.Equal(t, "dana@example.com", clients[0].Email)
	assert.Equal(t, "prefers evenings", clients[0].Notes)
}

func TestImportVCardNoValidCards(t *testing.T) {
	_, _, err := ImportVCard(strings.NewReader("BEGIN:VCARD\nVERSION:3.0\nEND:VCARD\n"))
	assert.ErrorIs(t, err, ErrNoValidPatients)
}

func TestVCardRoundTrip(t *testing.T) {
	original := []patients.Client{
		{Name: "Dana Levi", Phone: "0501234567", Email: "dana@example.com", Notes: "vip"},
		{Name: "Noa Bar", Phone: "0529876543"},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportVCard(&buf, original))

	imported, report, err := ImportVCard(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Accepted)
	require.Len(t, imported, len(original))
	for i := range original {
		assert.Equal(t, original[i].Name, imported[i].Name)
		assert.Equal(t, original[i].Phone, imported[i].Phone)
		assert.Equal(t, original[i].Email, imported[i].Email)
		assert.Equal(t, original[i].Notes, imported[i].Notes)
	}
}

func TestExportSingleVCard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportSingleVCard(&buf, patients.Client{Name: "Dana Levi", Phone: "0501234567"}))

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCARD")
	assert.Contains(t, out, "FN:Dana Levi")
	assert.Contains(t, out, "TEL;TYPE=CELL:0501234567")
	assert.Contains(t, out, "END:VCARD")
	assert.NotContains(t, out, "EMAIL:")
}
