package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sejong-dental-qr/internal/domain"
)

// Columns maps roster concepts to the spreadsheet's header titles.
// All five are required; a missing header is a configuration error.
type Columns struct {
	Name     string
	Address  string
	Phone    string
	Director string
	Homepage string
}

// ExcelReader reads the clinic roster from an xlsx workbook.
type ExcelReader struct {
	logger *zap.Logger
}

// NewExcelReader creates an ExcelReader.
func NewExcelReader(logger *zap.Logger) *ExcelReader {
	return &ExcelReader{logger: logger}
}

// Read loads the sheet at sheetIndex, maps the configured header titles and
// returns validated clinic inputs. Data-quality warnings are logged; missing
// required columns and duplicate names fail the build.
func (r *ExcelReader) Read(path string, sheetIndex int, cols Columns) ([]domain.ClinicInput, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheetIndex < 0 || sheetIndex >= len(sheets) {
		return nil, fmt.Errorf("roster %s has no sheet at index %d", path, sheetIndex)
	}
	sheet := sheets[sheetIndex]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read roster sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: roster sheet %q is empty", domain.ErrMissingColumn, sheet)
	}

	index := make(map[string]int, len(rows[0]))
	for i, title := range rows[0] {
		index[strings.TrimSpace(title)] = i
	}
	required := []string{cols.Name, cols.Address, cols.Phone, cols.Director, cols.Homepage}
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumn, strings.Join(missing, ", "))
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	rosterRows := make([]RosterRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rosterRows = append(rosterRows, RosterRow{
			Name:     cell(row, cols.Name),
			Address:  cell(row, cols.Address),
			Phone:    cell(row, cols.Phone),
			Director: cell(row, cols.Director),
			Homepage: cell(row, cols.Homepage),
		})
	}

	inputs, diags, err := BuildInputs(rosterRows)
	if err != nil {
		return nil, err
	}
	if diags.DroppedEmptyNames > 0 {
		r.logger.Warn("Dropped roster rows with empty clinic name",
			zap.Int("count", diags.DroppedEmptyNames),
		)
	}
	for _, warning := range diags.MissingFields {
		r.logger.Warn("Missing optional roster field",
			zap.String("clinic_name", warning.ClinicName),
			zap.String("field", warning.Field),
		)
	}
	r.logger.Info("Loaded clinic roster",
		zap.String("path", path),
		zap.String("sheet", sheet),
		zap.Int("clinics", len(inputs)),
	)
	return inputs, nil
}
