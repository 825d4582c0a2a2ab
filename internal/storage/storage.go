package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Tiliavir/keeper/internal/model"
	"github.com/Tiliavir/keeper/internal/timecalc"
)

// ParseError reports a keeper document that cannot be loaded: malformed
// JSON, wrong field types, unknown categories or invalid day-keys.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("corrupt keeper file %s: %v\nTip: fix the file by hand or delete it to start over", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads the keeper document at path. A missing document is created
// empty first. Nothing is returned unless every booking decodes.
func Load(path string) (model.Bookings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(path, model.Bookings{}); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var kf model.KeeperFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	for key := range kf.Bookings {
		if _, err := timecalc.ParseDayKey(key); err != nil {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("invalid day key %q", key)}
		}
	}
	if kf.Bookings == nil {
		kf.Bookings = model.Bookings{}
	}
	return kf.Bookings, nil
}

// Save atomically rewrites the whole keeper document.
func Save(path string, bookings model.Bookings) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("storage error creating directories: %w", err)
		}
	}

	if bookings == nil {
		bookings = model.Bookings{}
	}
	data, err := json.MarshalIndent(model.KeeperFile{Bookings: bookings}, "", "    ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Keys returns the day-keys of bookings in ascending order.
func Keys(bookings model.Bookings) []string {
	keys := make([]string, 0, len(bookings))
	for k := range bookings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
