// Package qrgen renders the per-clinic QR PNGs: the bare code encoding the
// clinic's landing URL, and a "named" variant with the clinic name drawn as a
// caption below the code for print handouts.
package qrgen

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// Generator writes QR assets under the configured output root.
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{logger: logger}
}

// recoveryLevel maps the config letter to go-qrcode's level.
// H is the operating default: printed QR stickers get scratched and partially
// covered, and the payload (a short URL) is small enough to afford it.
func recoveryLevel(ec string) (qrcode.RecoveryLevel, error) {
	switch ec {
	case "L":
		return qrcode.Low, nil
	case "M":
		return qrcode.Medium, nil
	case "Q":
		return qrcode.High, nil
	case "H":
		return qrcode.Highest, nil
	}
	return 0, fmt.Errorf("invalid QR error correction: %q", ec)
}

// WritePNG encodes url into a QR PNG at outPath. boxSize is the pixel size of
// one QR module; border 0 drops the quiet zone (any positive value keeps the
// standard 4-module zone).
func (g *Generator) WritePNG(url, outPath, ec string, boxSize, border int) error {
	level, err := recoveryLevel(ec)
	if err != nil {
		return err
	}
	qr, err := qrcode.New(url, level)
	if err != nil {
		return fmt.Errorf("encode QR for %s: %w", url, err)
	}
	qr.DisableBorder = border == 0

	// Negative size scales by modules instead of fitting a fixed canvas.
	data, err := qr.PNG(-boxSize)
	if err != nil {
		return fmt.Errorf("render QR PNG: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create QR dir: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write QR %s: %w", outPath, err)
	}
	return nil
}
