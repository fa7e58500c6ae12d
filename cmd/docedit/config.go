package main

import (
	"os"
	"path/filepath"
)

// defaultConfigPath returns the user's docedit.toml, or empty when no
// configuration directory is known.
func defaultConfigPath() string {
	if p := os.Getenv("DOCEDIT_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "docedit", "docedit.toml")
}
