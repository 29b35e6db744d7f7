// Package extractor reads document records produced by the PDF extraction
// pipeline. Extraction itself happens outside this module; the boundary is
// one JSON object per document carrying the ordered block list.
package extractor

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"paperqa/internal/domain"
)

// LoadRecord parses one extractor JSON file into a DocumentRecord.
// Unknown fields in the JSON are ignored; the extractor writes more
// metadata than the retrieval pipeline consumes.
func LoadRecord(path string) (domain.DocumentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.DocumentRecord{}, &domain.ExtractionError{Path: path, Err: err}
	}
	var rec domain.DocumentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.DocumentRecord{}, &domain.ExtractionError{Path: path, Err: err}
	}
	if rec.ID == "" {
		return domain.DocumentRecord{}, &domain.ExtractionError{
			Path: path,
			Err:  errors.New("record missing document_id"),
		}
	}
	if len(rec.Blocks) == 0 {
		return domain.DocumentRecord{}, &domain.ExtractionError{
			Path: path,
			Err:  errors.New("record has no blocks"),
		}
	}
	if rec.SourcePath == "" {
		rec.SourcePath = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return rec, nil
}

// ListRecords returns the record files in dir, sorted for deterministic
// processing order.
func ListRecords(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
