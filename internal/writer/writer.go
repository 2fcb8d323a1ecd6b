package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HomeDim/news-parser/internal/domain"
)

// Package writer persists one collection run as a timestamped JSON batch
// file. The format is fixed by the downstream consumers: a single UTF-8
// JSON array, two-space indentation, non-ASCII characters unescaped.

const timestampLayout = "20060102_1504"

// WriteBatch serializes the records to <dir>/<prefix>_<timestamp>.json
// and returns the written path. A nil slice still produces a valid empty
// array file.
func WriteBatch(dir, prefix string, ts time.Time, records []domain.NewsRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	if records == nil {
		records = []domain.NewsRecord{}
	}

	filename := fmt.Sprintf("%s_%s.json", prefix, ts.Format(timestampLayout))
	path := filepath.Join(dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create batch file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", fmt.Errorf("encode batch: %w", err)
	}

	return path, nil
}
