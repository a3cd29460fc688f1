// Package outbox bundles fresh delivery material for clinics whose status
// changed this build (NEW or REACTIVATED), so the operator only sends out
// what actually needs sending.
package outbox

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"sejong-dental-qr/internal/domain"
	"sejong-dental-qr/internal/report"
)

// SendlistColumns is the fixed column order of sendlist.csv.
var SendlistColumns = []string{
	"clinic_id",
	"clinic_name",
	"change_type",
	"url",
	"zip_path",
}

// Result summarizes one outbox run.
type Result struct {
	Targets      int
	ZipsCreated  int
	SendlistPath string
	ZipNames     []string
}

// Builder creates the outbox tree under the configured outbox root.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// Create rebuilds outboxRoot from scratch: zips/<clinic_id>_<slug>.zip for
// every NEW/REACTIVATED clinic plus sendlist.csv. Targets with missing
// delivery files are skipped with a warning; the operator re-runs the build
// after fixing the gap rather than shipping an incomplete bundle.
func (b *Builder) Create(outboxRoot, deliveryRoot string, mappingRecords []report.MappingRecord, changes []domain.ChangeRecord) (*Result, error) {
	if err := os.RemoveAll(outboxRoot); err != nil {
		return nil, fmt.Errorf("clear outbox %s: %w", outboxRoot, err)
	}
	zipsRoot := filepath.Join(outboxRoot, "zips")
	if err := os.MkdirAll(zipsRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create outbox %s: %w", zipsRoot, err)
	}

	mappingByID := make(map[string]report.MappingRecord, len(mappingRecords))
	for _, record := range mappingRecords {
		mappingByID[record.ClinicID] = record
	}

	var targets []domain.ChangeRecord
	for _, change := range changes {
		if change.ChangeType == domain.ChangeNew || change.ChangeType == domain.ChangeReactivated {
			targets = append(targets, change)
		}
	}

	var sendlistRows [][]string
	var zipNames []string
	for _, change := range targets {
		record, ok := mappingByID[change.ClinicID]
		if !ok {
			b.logger.Warn("Missing mapping for outbox target", zap.String("clinic_id", change.ClinicID))
			continue
		}
		if !record.Status.IsActive() {
			b.logger.Warn("Outbox skip inactive clinic", zap.String("clinic_id", change.ClinicID))
			continue
		}

		dirName := record.ClinicID + "_" + domain.SlugName(record.ClinicName)
		deliveryDir := filepath.Join(deliveryRoot, dirName)
		required := []string{
			filepath.Join(deliveryDir, "qr.png"),
			filepath.Join(deliveryDir, "qr_named.png"),
			filepath.Join(deliveryDir, "info.txt"),
		}
		var missing []string
		for _, path := range required {
			if _, err := os.Stat(path); err != nil {
				missing = append(missing, filepath.Base(path))
			}
		}
		if len(missing) > 0 {
			b.logger.Warn("Outbox skip clinic with missing delivery files",
				zap.String("clinic_id", record.ClinicID),
				zap.Strings("missing", missing),
			)
			continue
		}

		zipName := dirName + ".zip"
		zipPath := filepath.Join(zipsRoot, zipName)
		if err := writeZip(zipPath, required); err != nil {
			return nil, err
		}
		zipNames = append(zipNames, zipName)

		sendlistRows = append(sendlistRows, []string{
			record.ClinicID,
			record.ClinicName,
			string(change.ChangeType),
			record.URL,
			zipPath,
		})
	}

	sendlistPath := filepath.Join(outboxRoot, "sendlist.csv")
	if err := report.WriteCSV(sendlistPath, SendlistColumns, sendlistRows); err != nil {
		return nil, err
	}
	return &Result{
		Targets:      len(targets),
		ZipsCreated:  len(zipNames),
		SendlistPath: sendlistPath,
		ZipNames:     zipNames,
	}, nil
}

func writeZip(zipPath string, files []string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", zipPath, err)
	}
	writer := zip.NewWriter(out)
	for _, path := range files {
		in, err := os.Open(path)
		if err != nil {
			writer.Close()
			out.Close()
			return fmt.Errorf("open %s: %w", path, err)
		}
		entry, err := writer.Create(filepath.Base(path))
		if err == nil {
			_, err = io.Copy(entry, in)
		}
		in.Close()
		if err != nil {
			writer.Close()
			out.Close()
			return fmt.Errorf("zip %s into %s: %w", path, zipPath, err)
		}
	}
	if err := writer.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finalize %s: %w", zipPath, err)
	}
	return out.Close()
}
