package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/iktkiosk/tcgreceipt/internal/models"
)

// SeedRecord is one catalog entry as stored in a seed file.
// Description may be a plain string or a map of language code to text.
type SeedRecord struct {
	Name        string          `json:"name"`
	Rarity      string          `json:"rarity"`
	Description json.RawMessage `json:"description"`
}

// parquetRow is the column layout of a parquet seed file
type parquetRow struct {
	Name        string `parquet:"name"`
	Rarity      string `parquet:"rarity"`
	Description string `parquet:"description,optional"`
}

func (p parquetRow) record() (SeedRecord, error) {
	desc, err := json.Marshal(p.Description)
	if err != nil {
		return SeedRecord{}, err
	}
	return SeedRecord{Name: p.Name, Rarity: p.Rarity, Description: desc}, nil
}

type seedFile struct {
	HistoricalFigures []SeedRecord `json:"historical_figures"`
}

// descriptionLanguages lists which translation to keep, in order
var descriptionLanguages = []string{"no", "en"}

// Entry converts a seed record to a catalog entry
func (r SeedRecord) Entry() (models.CatalogEntry, error) {
	entry := models.CatalogEntry{
		Name:   strings.TrimSpace(r.Name),
		Rarity: models.Tier(strings.ToUpper(strings.TrimSpace(r.Rarity))),
	}
	if entry.Name == "" {
		return entry, fmt.Errorf("seed record has no name")
	}
	if !entry.Rarity.Valid() {
		return entry, fmt.Errorf("seed record %q has unknown rarity %q", entry.Name, r.Rarity)
	}

	desc, err := r.description()
	if err != nil {
		return entry, fmt.Errorf("seed record %q: %w", entry.Name, err)
	}
	entry.Description = desc
	return entry, nil
}

func (r SeedRecord) description() (string, error) {
	raw := bytes.TrimSpace(r.Description)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	var translations map[string]string
	if err := json.Unmarshal(raw, &translations); err != nil {
		return "", fmt.Errorf("description is neither a string nor a translation map: %w", err)
	}
	for _, lang := range descriptionLanguages {
		if text, ok := translations[lang]; ok {
			return text, nil
		}
	}
	return "", nil
}

// LoadEntries reads catalog entries from a seed file (.json, .jsonl or .parquet)
func LoadEntries(path string) ([]models.CatalogEntry, error) {
	var (
		records []SeedRecord
		err     error
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		records, err = loadJSON(path)
	case ".jsonl":
		records, err = loadJSONL(path)
	case ".parquet":
		records, err = loadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported seed format: %s (supported: .json, .jsonl, .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]models.CatalogEntry, 0, len(records))
	for i, rec := range records {
		entry, err := rec.Entry()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}

	slog.Debug("Loaded seed entries", "path", path, "count", len(entries))
	return entries, nil
}

func loadJSON(path string) ([]SeedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var records []SeedRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse seed file: %w", err)
		}
		return records, nil
	}

	var file seedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return file.HistoricalFigures, nil
}

func loadJSONL(path string) ([]SeedRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	var records []SeedRecord
	scanner := bufio.NewScanner(file)
	const maxCapacity = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var record SeedRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}
	return records, nil
}

func loadParquet(path string) ([]SeedRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}
	slog.Debug("Parquet seed opened", "num_rows", pf.NumRows())

	reader := parquet.NewGenericReader[parquetRow](pf)
	defer reader.Close()

	var records []SeedRecord
	rows := make([]parquetRow, 128)
	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			rec, convErr := row.record()
			if convErr != nil {
				return nil, fmt.Errorf("failed to convert parquet row: %w", convErr)
			}
			records = append(records, rec)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to read parquet rows: %w", err)
			}
			break
		}
	}
	return records, nil
}
