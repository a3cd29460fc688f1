package repository

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sejong-dental-qr/internal/domain"
)

// utf8BOM is written so operators can open id_map.csv directly in Excel;
// Excel mis-detects the encoding of Korean text without it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVIDMapRepository stores the snapshot as a flat CSV file.
type CSVIDMapRepository struct {
	path string
}

// NewCSVIDMapRepository creates a repository backed by the CSV file at path.
func NewCSVIDMapRepository(path string) *CSVIDMapRepository {
	return &CSVIDMapRepository{path: path}
}

// Load reads the snapshot. A missing file yields an empty snapshot (first
// build). A present file missing any core column is corrupt state and fails.
func (r *CSVIDMapRepository) Load() ([]domain.ClinicRecord, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read id_map %s: %w", r.path, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse id_map %s: %w", r.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, col := range CoreColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: id_map missing required column(s): %s",
			domain.ErrCorruptSnapshot, strings.Join(missing, ", "))
	}

	field := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]domain.ClinicRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		status, ok := domain.ParseStatus(field(row, "status"))
		if !ok {
			return nil, fmt.Errorf("%w: row %d has invalid status %q",
				domain.ErrCorruptSnapshot, n+2, field(row, "status"))
		}
		records = append(records, domain.ClinicRecord{
			ClinicID:    strings.TrimSpace(field(row, "clinic_id")),
			ClinicName:  field(row, "clinic_name"),
			Status:      status,
			FirstSeenAt: field(row, "first_seen_at"),
			LastSeenAt:  field(row, "last_seen_at"),
			Address:     field(row, "address"),
			Phone:       field(row, "phone"),
			Director:    field(row, "director"),
			Homepage:    field(row, "homepage"),
		})
	}
	return records, nil
}

// Save writes the snapshot to a temp file in the same directory and renames
// it over the target, so a crashed build never leaves a half-written id_map.
func (r *CSVIDMapRepository) Save(records []domain.ClinicRecord) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create id_map dir %s: %w", dir, err)
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	writer := csv.NewWriter(&buf)
	if err := writer.Write(append(append([]string{}, CoreColumns...), ExtraColumns...)); err != nil {
		return fmt.Errorf("write id_map header: %w", err)
	}
	for _, record := range records {
		row := []string{
			record.ClinicID,
			record.ClinicName,
			string(record.Status),
			record.FirstSeenAt,
			record.LastSeenAt,
			record.Address,
			record.Phone,
			record.Director,
			record.Homepage,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write id_map row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush id_map: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".id_map-*.csv")
	if err != nil {
		return fmt.Errorf("create id_map temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write id_map temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close id_map temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace id_map %s: %w", r.path, err)
	}
	return nil
}
