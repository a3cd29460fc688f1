package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RosterFetcher downloads the roster workbook from a remote URL and keeps a
// SHA-256 sidecar so unchanged remote rosters can be reported as such.
type RosterFetcher struct {
	client *resty.Client
	logger *zap.Logger
}

// NewRosterFetcher creates a fetcher with retry-enabled HTTP defaults.
func NewRosterFetcher(logger *zap.Logger) *RosterFetcher {
	client := resty.New().
		SetTimeout(60 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)
	return &RosterFetcher{client: client, logger: logger}
}

// Fetch downloads url into destPath and updates the hash sidecar at hashPath.
// Returns whether the workbook content changed since the previous fetch.
func (f *RosterFetcher) Fetch(url, destPath, hashPath string) (bool, error) {
	resp, err := f.client.R().Get(url)
	if err != nil {
		return false, fmt.Errorf("download roster %s: %w", url, err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("download roster %s: HTTP %d", url, resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return false, fmt.Errorf("download roster %s: empty response body", url)
	}

	sum := sha256.Sum256(body)
	newHash := hex.EncodeToString(sum[:])

	previousHash := ""
	if data, err := os.ReadFile(hashPath); err == nil {
		previousHash = strings.TrimSpace(string(data))
	}
	changed := previousHash != newHash

	if err := writeFile(destPath, body); err != nil {
		return false, err
	}
	if err := writeFile(hashPath, []byte(newHash+"\n")); err != nil {
		return false, err
	}

	f.logger.Info("Fetched remote roster",
		zap.String("url", url),
		zap.String("dest", destPath),
		zap.Int("bytes", len(body)),
		zap.Bool("changed", changed),
	)
	return changed, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
