package importexport

import (
	"fmt"
	"io"
	"strings"

	"github.com/clinicdesk/clinicdesk/internal/patients"
)

// ImportVCard reads a multi-card vCard blob. Per card it extracts FN,
// TEL (any parameters), EMAIL, and NOTE; cards missing a name or a
// phone number are skipped.
func ImportVCard(r io.Reader) ([]patients.Client, Report, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, Report{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	blocks := strings.Split(string(raw), "BEGIN:VCARD")
	var (
		clients []patients.Client
		report  Report
	)
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		c := parseCard(block)
		if c.Name == "" || c.Phone == "" {
			report.Skipped++
			continue
		}
		c.Status = patients.StatusActive
		c.TreatmentHistory = []patients.TreatmentRecord{}
		clients = append(clients, c)
		report.Accepted++
	}
	if report.Accepted == 0 {
		return nil, report, ErrNoValidPatients
	}
	return clients, report, nil
}

func parseCard(block string) patients.Client {
	var c patients.Client
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "FN:"):
			c.Name = strings.TrimSpace(strings.TrimPrefix(line, "FN:"))
		case strings.HasPrefix(line, "TEL"):
			if i := strings.Index(line, ":"); i >= 0 {
				c.Phone = strings.TrimSpace(line[i+1:])
			}
		case strings.HasPrefix(line, "EMAIL"):
			if i := strings.Index(line, ":"); i >= 0 {
				c.Email = strings.TrimSpace(line[i+1:])
			}
		case strings.HasPrefix(line, "NOTE:"):
			c.Notes = strings.TrimSpace(strings.TrimPrefix(line, "NOTE:"))
		}
	}
	return c
}

// ExportVCard writes one VERSION:3.0 card per client. Output
// round-trips through ImportVCard modulo IDs.
func ExportVCard(w io.Writer, clients []patients.Client) error {
	var b strings.Builder
	for _, c := range clients {
		writeCard(&b, c)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// ExportSingleVCard writes one client as a standalone card, for the
// per-client contact download.
func ExportSingleVCard(w io.Writer, c patients.Client) error {
	var b strings.Builder
	writeCard(&b, c)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCard(b *strings.Builder, c patients.Client) {
	b.WriteString("BEGIN:VCARD\r\n")
	b.WriteString("VERSION:3.0\r\n")
	fmt.Fprintf(b, "FN:%s\r\n", c.Name)
	fmt.Fprintf(b, "TEL;TYPE=CELL:%s\r\n", c.Phone)
	if c.Email != "" {
		fmt.Fprintf(b, "EMAIL:%s\r\n", c.Email)
	}
	if c.Notes != "" {
		fmt.Fprintf(b, "NOTE:%s\r\n", c.Notes)
	}
	b.WriteString("END:VCARD\r\n")
}
