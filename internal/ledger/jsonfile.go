package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"
)

// JSONFile persists the ledger as an indented JSON object:
//
//	{
//	  "123456789012345678": {
//	    "total": 150
//	  }
//	}
//
// Totals are written as JSON numbers so files stay compatible with ledgers
// written by earlier versions of the bot.
type JSONFile struct {
	path string
}

// defaultFileMode is used when the ledger file does not exist yet.
const defaultFileMode fs.FileMode = 0o644

type jsonRecord struct {
	Total json.Number `json:"total"`
}

// NewJSONFile returns a backend for the file at path. The file need not exist.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Load reads the file. A missing file is an empty ledger.
func (f *JSONFile) Load(ctx context.Context) ([]Entry, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	var records map[string]jsonRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, f.path, err)
	}

	entries := make([]Entry, 0, len(records))
	for id, rec := range records {
		total, err := decimal.NewFromString(rec.Total.String())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: user %s: %w", ErrMalformed, f.path, id, err)
		}
		entries = append(entries, Entry{UserID: id, Total: total})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UserID < entries[j].UserID
	})
	return entries, nil
}

// Save rewrites the whole file. The new content is written to a temporary
// file in the same directory and renamed into place.
func (f *JSONFile) Save(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records := make(map[string]jsonRecord, len(entries))
	for _, e := range entries {
		records[e.UserID] = jsonRecord{Total: json.Number(e.Total.String())}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	// CreateTemp makes 0600 files; keep the ledger's existing permissions.
	mode := defaultFileMode
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
