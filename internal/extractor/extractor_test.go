package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperqa/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validRecord = `{
	"document_id": "doc-42",
	"title": "A Study",
	"source_path": "papers/a-study.pdf",
	"blocks": [
		{"page_number": 1, "section_heading": "Intro", "block_type": "text", "text": "Hello."},
		{"page_number": 2, "block_type": "table", "text": "| a | b |"}
	],
	"extractor_version": "ignored-extra-field"
}`

func TestLoadRecord(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a-study.json", validRecord)

	rec, err := LoadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, "doc-42", rec.ID)
	assert.Equal(t, "a-study.pdf", rec.SourceFilename())
	require.Len(t, rec.Blocks, 2)
	assert.Equal(t, domain.BlockText, rec.Blocks[0].Type)
	assert.Equal(t, domain.BlockTable, rec.Blocks[1].Type)
	assert.Equal(t, "Intro", rec.Blocks[0].SectionHeading)
}

func TestLoadRecordDerivesSourcePath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mypaper.json",
		`{"document_id": "d1", "blocks": [{"page_number": 1, "block_type": "text", "text": "x."}]}`)
	rec, err := LoadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, "mypaper", rec.SourceFilename())
}

func TestLoadRecordErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"malformed json", "bad.json", `{"document_id": `},
		{"missing document id", "noid.json", `{"blocks": [{"page_number": 1, "block_type": "text", "text": "x"}]}`},
		{"no blocks", "empty.json", `{"document_id": "d1", "blocks": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := LoadRecord(path)
			var extErr *domain.ExtractionError
			require.ErrorAs(t, err, &extErr)
			assert.Equal(t, path, extErr.Path)
		})
	}
}

func TestLoadRecordMissingFile(t *testing.T) {
	_, err := LoadRecord(filepath.Join(t.TempDir(), "absent.json"))
	var extErr *domain.ExtractionError
	require.ErrorAs(t, err, &extErr)
}

func TestListRecords(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", "{}")
	writeFile(t, dir, "a.JSON", "{}")
	writeFile(t, dir, "notes.txt", "skip me")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	paths, err := ListRecords(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "a.JSON"), paths[0])
	assert.Equal(t, filepath.Join(dir, "b.json"), paths[1])
}

func TestListRecordsMissingDir(t *testing.T) {
	_, err := ListRecords(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
