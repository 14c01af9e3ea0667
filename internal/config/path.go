package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a user-supplied file location. Environment variables
// are expanded first, so BASKET_DATA=~/exports works in "$BASKET_DATA/log.csv";
// a leading ~ then becomes the home directory. The result is cleaned.
// Paths that cannot be expanded are returned unchanged.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	path = os.ExpandEnv(path)

	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && !os.IsPathSeparator(rest[0])) {
		// ~user forms are left to the shell.
		return filepath.Clean(path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Join(home, rest)
}
