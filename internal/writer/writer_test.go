package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/HomeDim/news-parser/internal/domain"
)

func TestWriteBatch(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, time.May, 15, 9, 7, 33, 0, time.UTC)

	records := []domain.NewsRecord{
		{
			Source:     "lenta.ru",
			ID:         "coffee",
			Title:      "Цены на кофе выросли",
			URL:        "https://lenta.ru/news/2024/05/15/coffee/",
			PubDate:    ts,
			Categories: []string{"economy"},
			RawContent: "Первый абзац. Второй абзац.",
		},
		{
			Source:     "lenta.ru",
			ID:         "tea",
			Title:      "Tea & biscuits",
			URL:        "https://lenta.ru/news/2024/05/15/tea/?a=1&b=2",
			PubDate:    ts,
			Categories: []string{"economy"},
		},
	}

	path, err := WriteBatch(dir, "lenta", ts, records)
	if err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}

	if got := filepath.Base(path); got != "lenta_20240515_0907.json" {
		t.Fatalf("unexpected filename %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read batch: %v", err)
	}

	var decoded []domain.NewsRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("batch is not a valid json array: %v", err)
	}
	if len(decoded) != 2 || decoded[0].ID != "coffee" || decoded[1].ID != "tea" {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	text := string(data)
	if !strings.Contains(text, "\n  {") {
		t.Fatalf("output must be indented with two spaces:\n%s", text)
	}
	if !strings.Contains(text, "?a=1&b=2") || strings.Contains(text, "\\u0026") {
		t.Fatalf("html escaping must be disabled:\n%s", text)
	}
	if !strings.Contains(text, "Цены на кофе выросли") {
		t.Fatalf("non-ascii text must stay unescaped:\n%s", text)
	}
}

func TestWriteBatchNilRecords(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, time.May, 15, 9, 7, 0, 0, time.UTC)

	path, err := WriteBatch(dir, "ria", ts, nil)
	if err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read batch: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "[]" {
		t.Fatalf("nil records must serialize as an empty array, got %q", got)
	}
}

func TestWriteBatchCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "raw")
	ts := time.Date(2024, time.May, 15, 9, 7, 0, 0, time.UTC)

	path, err := WriteBatch(dir, "lenta", ts, []domain.NewsRecord{})
	if err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("batch file missing: %v", err)
	}
}
