package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"sejong-dental-qr/internal/domain"
)

// MappingColumns is the fixed column order of mapping.csv (operator report).
var MappingColumns = []string{
	"clinic_name",
	"clinic_id",
	"status",
	"address",
	"phone",
	"director",
	"homepage",
	"url",
	"page_path",
	"qr_path",
	"qr_named_path",
}

// ChangesColumns is the fixed column order of changes.csv.
var ChangesColumns = []string{
	"clinic_id",
	"clinic_name",
	"change_type",
	"notes",
}

// MappingRecord is one operator-report row: the snapshot record joined with
// the artifact locations produced for it this build.
type MappingRecord struct {
	ClinicName  string
	ClinicID    string
	Status      domain.Status
	Address     string
	Phone       string
	Director    string
	Homepage    string
	URL         string
	PagePath    string
	QRPath      string
	QRNamedPath string
}

func (r MappingRecord) row() []string {
	return []string{
		r.ClinicName,
		r.ClinicID,
		string(r.Status),
		r.Address,
		r.Phone,
		r.Director,
		r.Homepage,
		r.URL,
		r.PagePath,
		r.QRPath,
		r.QRNamedPath,
	}
}

// WriteMappingCSV writes output/mapping.csv.
func WriteMappingCSV(records []MappingRecord, path string) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.row())
	}
	return WriteCSV(path, MappingColumns, rows)
}

// WriteChangesCSV writes output/changes.csv. notesByID supplies the optional
// free-text notes column, keyed by clinic_id.
func WriteChangesCSV(changes []domain.ChangeRecord, path string, notesByID map[string]string) error {
	rows := make([][]string, 0, len(changes))
	for _, change := range changes {
		rows = append(rows, []string{
			change.ClinicID,
			change.ClinicName,
			string(change.ChangeType),
			notesByID[change.ClinicID],
		})
	}
	return WriteCSV(path, ChangesColumns, rows)
}

// utf8BOM makes the reports open correctly in Excel (Korean text).
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes an operator-facing CSV report with a UTF-8 BOM.
func WriteCSV(path string, columns []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	writer := csv.NewWriter(&buf)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
