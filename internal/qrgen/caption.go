package qrgen

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// minCaptionSize is the smallest point size the caption shrinks to before the
// name is drawn clipped.
const minCaptionSize = 12

// WriteNamedPNG composes the QR at qrPath with a clinic-name caption below it
// and writes the result to outPath. The QR pixels are untouched; the canvas
// is extended downward for the text band.
//
// fontPath may be empty, in which case a Noto CJK font is located from the
// standard install paths (Korean names need a CJK-capable face).
func (g *Generator) WriteNamedPNG(qrPath, clinicName, outPath, fontPath string, fontSize int) error {
	qrFile, err := os.Open(qrPath)
	if err != nil {
		return fmt.Errorf("open QR %s: %w", qrPath, err)
	}
	qrImage, err := png.Decode(qrFile)
	qrFile.Close()
	if err != nil {
		return fmt.Errorf("decode QR %s: %w", qrPath, err)
	}

	if fontPath == "" {
		fontPath, err = findNotoCJKFont()
		if err != nil {
			return err
		}
	}
	fontData, err := os.ReadFile(fontPath)
	if err != nil {
		return fmt.Errorf("read caption font %s: %w", fontPath, err)
	}
	sfntFont, err := parseFont(fontData)
	if err != nil {
		return fmt.Errorf("parse caption font %s: %w", fontPath, err)
	}

	qrBounds := qrImage.Bounds()
	qrWidth := qrBounds.Dx()
	paddingX := qrWidth * 6 / 100
	if paddingX < 12 {
		paddingX = 12
	}
	maxWidth := qrWidth - paddingX*2

	face, textWidth, usedSize, err := fitCaption(sfntFont, clinicName, fontSize, maxWidth)
	if err != nil {
		return err
	}
	defer face.Close()
	if usedSize < fontSize {
		g.logger.Warn("Caption font size reduced to fit QR width",
			zap.String("clinic_name", clinicName),
			zap.Int("requested", fontSize),
			zap.Int("used", usedSize),
		)
	}

	metrics := face.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()
	bandHeight := lineHeight + lineHeight/2

	canvas := image.NewRGBA(image.Rect(0, 0, qrWidth, qrBounds.Dy()+bandHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, qrBounds.Sub(qrBounds.Min), qrImage, qrBounds.Min, draw.Src)

	drawer := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I((qrWidth - textWidth) / 2),
			Y: fixed.I(qrBounds.Dy()+bandHeight/2) + (metrics.Ascent-metrics.Descent)/2,
		},
	}
	drawer.DrawString(clinicName)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create QR dir: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	if err := png.Encode(out, canvas); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", outPath, err)
	}
	return out.Close()
}

// parseFont handles both plain font files and TrueType collections (the Noto
// CJK packages ship .ttc files).
func parseFont(data []byte) (*sfnt.Font, error) {
	if collection, err := opentype.ParseCollection(data); err == nil && collection.NumFonts() > 0 {
		return collection.Font(0)
	}
	return opentype.Parse(data)
}

// fitCaption shrinks the caption point size until the name fits maxWidth,
// down to minCaptionSize. Returns the face, the measured text width in pixels
// and the size actually used.
func fitCaption(f *sfnt.Font, text string, size, maxWidth int) (font.Face, int, int, error) {
	for ; size > minCaptionSize; size-- {
		face, width, err := measure(f, text, size)
		if err != nil {
			return nil, 0, 0, err
		}
		if width <= maxWidth {
			return face, width, size, nil
		}
		face.Close()
	}
	face, width, err := measure(f, text, minCaptionSize)
	if err != nil {
		return nil, 0, 0, err
	}
	return face, width, minCaptionSize, nil
}

func measure(f *sfnt.Font, text string, size int) (font.Face, int, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("build caption face: %w", err)
	}
	width := font.MeasureString(face, text).Ceil()
	return face, width, nil
}

// findNotoCJKFont locates an installed Noto CJK font. Checked paths cover the
// Debian/Ubuntu fonts-noto-cjk package layouts.
func findNotoCJKFont() (string, error) {
	candidates := []string{
		"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
		"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.otf",
		"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	for _, root := range []string{"/usr/share/fonts", "/usr/local/share/fonts"} {
		var matches []string
		filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			for _, pattern := range []string{"NotoSansCJK*", "NotoSerifCJK*"} {
				if ok, _ := filepath.Match(pattern, d.Name()); ok && !d.IsDir() {
					matches = append(matches, path)
				}
			}
			return nil
		})
		if len(matches) > 0 {
			sort.Strings(matches)
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("Noto CJK font not found; install fonts-noto-cjk or set caption_font_path")
}
