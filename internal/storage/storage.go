package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Dir is where spotii keeps its state, ~/.config/spotii by default.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".spotii"
	}
	return filepath.Join(dir, "spotii")
}

// readJSON decodes path into out. A missing file leaves out untouched and
// reports ok == false.
func readJSON(path string, out any) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
