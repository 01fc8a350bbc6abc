package phrase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// maxBackupSize caps how much of a backup Import will read.
const maxBackupSize = 32 << 20

// record is the backup wire form of a SavedPhrase. Timestamps are Unix
// milliseconds; a record without one is stamped at import time.
type record struct {
	ID            string `json:"id,omitempty"`
	Text          string `json:"text"`
	Note          string `json:"note"`
	Timestamp     *int64 `json:"timestamp,omitempty"`
	LastScore     *int   `json:"lastScore,omitempty"`
	PracticeCount int    `json:"practiceCount"`
}

// backupSchema accepts what Export writes. Only text is required, so a
// hand-written list of {"text": ...} objects imports too.
var backupSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":   map[string]any{"type": "string", "minLength": 1},
			"text": map[string]any{"type": "string", "pattern": `\S`},
			"note": map[string]any{"type": "string"},
			"timestamp": map[string]any{
				"type":    "integer",
				"minimum": 0,
			},
			"lastScore": map[string]any{
				"type":    []any{"integer", "null"},
				"minimum": MinScore,
				"maximum": MaxScore,
			},
			"practiceCount": map[string]any{
				"type":    "integer",
				"minimum": 0,
			},
		},
		"required":             []any{"text"},
		"additionalProperties": false,
	},
}

var (
	backupOnce     sync.Once
	backupCompiled *jsonschema.Schema
	backupErr      error
)

func compiledBackupSchema() (*jsonschema.Schema, error) {
	backupOnce.Do(func() {
		// The compiler wants plain decoded JSON values, not Go ints.
		defBytes, err := json.Marshal(backupSchema)
		if err != nil {
			backupErr = err
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			backupErr = err
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://phrase-backup.json"
		if err := c.AddResource(url, def); err != nil {
			backupErr = fmt.Errorf("add resource: %w", err)
			return
		}
		backupCompiled, backupErr = c.Compile(url)
	})
	return backupCompiled, backupErr
}

// Export writes the whole library, in order, as an indented JSON array.
func (l *Library) Export(w io.Writer) error {
	phrases := l.List()
	out := make([]record, len(phrases))
	for i, p := range phrases {
		ms := p.Timestamp.UnixMilli()
		out[i] = record{
			ID:            p.ID,
			Text:          p.Text,
			Note:          p.Note,
			Timestamp:     &ms,
			LastScore:     p.LastScore,
			PracticeCount: p.PracticeCount,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode phrases: %w", err)
	}
	return nil
}

// ExportFile writes the backup to path, replacing it atomically.
func (l *Library) ExportFile(path string) error {
	return writeFileAtomic(path, l.Export)
}

// Import merges a backup produced by Export into the library. Imported
// phrases come first in their given order, followed by existing phrases
// whose text the backup does not contain. Any malformed input is rejected
// as a whole with *ImportFormatError.
func (l *Library) Import(ctx context.Context, r io.Reader) (ImportSummary, error) {
	incoming, err := decodeBackup(r, l.now())
	if err != nil {
		return ImportSummary{}, err
	}
	return l.merge(ctx, incoming)
}

// ImportFile is Import reading from path.
func (l *Library) ImportFile(ctx context.Context, path string) (ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()
	return l.Import(ctx, f)
}

// decodeBackup validates and converts a backup. Records missing a
// timestamp get now; missing ids are left empty for merge to assign.
func decodeBackup(r io.Reader, now time.Time) ([]SavedPhrase, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBackupSize+1))
	if err != nil {
		return nil, &ImportFormatError{Err: fmt.Errorf("read: %w", err)}
	}
	if len(raw) > maxBackupSize {
		return nil, &ImportFormatError{Err: errors.New("backup is too large")}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ImportFormatError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := compiledBackupSchema()
	if err != nil {
		return nil, fmt.Errorf("compile backup schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, &ImportFormatError{Err: err}
	}

	var recs []record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, &ImportFormatError{Err: err}
	}

	out := make([]SavedPhrase, len(recs))
	for i, rec := range recs {
		ts := now
		if rec.Timestamp != nil {
			ts = time.UnixMilli(*rec.Timestamp)
		}
		out[i] = SavedPhrase{
			ID:            rec.ID,
			Text:          strings.TrimSpace(rec.Text),
			Note:          rec.Note,
			Timestamp:     ts,
			LastScore:     rec.LastScore,
			PracticeCount: rec.PracticeCount,
		}
	}
	return out, nil
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".speakup-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
