package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the keeper configuration, stored in keeper_settings.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// KeeperFile is the path of the bookings document, relative to the
	// working directory unless absolute.
	KeeperFile string `json:"keeper_file"`
	// ContractedWorkingHours is the agreed working time per day.
	ContractedWorkingHours float64 `json:"contracted_working_hours"`
	// DefaultPauseLength is subtracted from the rounded presence time when
	// a day is checked out.
	DefaultPauseLength float64 `json:"default_pause_length"`
}

const (
	// DefaultPath is the settings file looked up in the working directory.
	DefaultPath = "keeper_settings.json"
	// DefaultKeeperFile is the bookings document used when none is configured.
	DefaultKeeperFile = "keeper.json"
	// DefaultContractedWorkingHours is the contracted time per day in hours.
	DefaultContractedWorkingHours = 8
	// DefaultPauseLength is the pause allowance in hours.
	DefaultPauseLength = 0.5
)

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	return Config{
		KeeperFile:             DefaultKeeperFile,
		ContractedWorkingHours: DefaultContractedWorkingHours,
		DefaultPauseLength:     DefaultPauseLength,
	}
}

// ParseError reports a settings file that is not valid JSON or has
// values of the wrong type.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing settings file %s: %v\nTip: fix the file or delete it to regenerate defaults", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the settings file at path, creating it with defaults on
// first run. Keys missing from the file keep their default values and
// unknown keys are ignored.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeDefault(path); err != nil {
			return Config{}, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return Config{}, &ParseError{Path: path, Err: err}
	}
	if cfg.KeeperFile == "" {
		cfg.KeeperFile = DefaultKeeperFile
	}
	return cfg, nil
}

// writeDefault writes the default settings document, creating parent
// directories as needed.
func writeDefault(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(Default(), "", "    ")
	if err != nil {
		return fmt.Errorf("encoding default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing default settings: %w", err)
	}
	return nil
}
