// Package delivery assembles the per-clinic handout folder: the QR PNGs plus
// a plain-text info sheet, laid out so the operator can hand the directory
// contents straight to the clinic.
package delivery

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"sejong-dental-qr/internal/domain"
	"sejong-dental-qr/internal/report"
)

// Result identifies one created delivery package.
type Result struct {
	OutputDir  string
	ClinicID   string
	ClinicName string
}

// Packager creates delivery packages for ACTIVE clinics.
type Packager struct {
	messageActive string
	logger        *zap.Logger
}

// NewPackager creates a Packager. messageActive is the association's member
// notice included in each info sheet.
func NewPackager(messageActive string, logger *zap.Logger) *Packager {
	return &Packager{messageActive: messageActive, logger: logger}
}

// Create builds output/delivery/<clinic_id>_<slug>/ for every ACTIVE record:
// qr.png, qr_named.png (when available) and info.txt. A missing bare QR for
// an ACTIVE clinic is fatal (the QR step was skipped or failed), while a
// missing named variant only logs a warning.
func (p *Packager) Create(deliveryRoot string, records []report.MappingRecord, createdAt string) ([]Result, error) {
	var results []Result
	for _, record := range records {
		if !record.Status.IsActive() {
			continue
		}
		if record.QRPath == "" {
			return nil, fmt.Errorf("missing qr_path for ACTIVE clinic: %s", record.ClinicID)
		}

		targetDir := filepath.Join(deliveryRoot, record.ClinicID+"_"+domain.SlugName(record.ClinicName))
		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			return nil, fmt.Errorf("create delivery dir %s: %w", targetDir, err)
		}
		if err := copyFile(record.QRPath, filepath.Join(targetDir, "qr.png")); err != nil {
			return nil, err
		}

		switch {
		case record.QRNamedPath == "":
			p.logger.Warn("Missing qr_named_path", zap.String("clinic_id", record.ClinicID))
		case !fileExists(record.QRNamedPath):
			p.logger.Warn("qr_named.png not found", zap.String("clinic_id", record.ClinicID))
		default:
			if err := copyFile(record.QRNamedPath, filepath.Join(targetDir, "qr_named.png")); err != nil {
				return nil, err
			}
		}

		infoPath := filepath.Join(targetDir, "info.txt")
		if err := os.WriteFile(infoPath, []byte(p.renderInfo(record, createdAt)), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", infoPath, err)
		}

		results = append(results, Result{
			OutputDir:  targetDir,
			ClinicID:   record.ClinicID,
			ClinicName: record.ClinicName,
		})
	}
	return results, nil
}

// renderInfo produces the operator-readable info sheet for one clinic.
func (p *Packager) renderInfo(record report.MappingRecord, createdAt string) string {
	return "치과명: " + record.ClinicName + "\n" +
		"식별코드: " + record.ClinicID + "\n" +
		"URL: " + record.URL + "\n" +
		"주소: " + orDash(record.Address) + "\n" +
		"전화: " + orDash(record.Phone) + "\n" +
		"대표원장: " + orDash(record.Director) + "\n" +
		"홈페이지: " + orDash(record.Homepage) + "\n" +
		"안내: " + p.messageActive + "\n" +
		"생성일: " + createdAt + "\n"
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
