// Package pathutil resolves the on-disk layout of a certprofile root directory.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	ConfigDirName    = "config"
	StoreDirName     = "store"
	ProfilesFileName = "profiles.yaml"
	SettingsFileName = "settings.yaml"
)

// Layout locates configuration and store directories under a root.
type Layout struct {
	Root string
}

// NewLayout returns the layout for root after expanding a leading ~/.
func NewLayout(root string) Layout {
	return Layout{Root: ExpandHomePath(root)}
}

func (l Layout) ConfigDir() string    { return filepath.Join(l.Root, ConfigDirName) }
func (l Layout) StoreDir() string     { return filepath.Join(l.Root, StoreDirName) }
func (l Layout) ProfilesFile() string { return filepath.Join(l.ConfigDir(), ProfilesFileName) }
func (l Layout) SettingsFile() string { return filepath.Join(l.ConfigDir(), SettingsFileName) }

// Resolve maps a configured path into the layout. Paths starting with ~/
// are expanded, absolute paths are kept and relative paths are taken
// relative to the store directory.
func (l Layout) Resolve(path string) string {
	expanded := ExpandHomePath(path)
	if filepath.IsAbs(expanded) {
		return expanded
	}
	return filepath.Join(l.StoreDir(), expanded)
}

// ExpandHomePath expands a leading ~/ to the user's home directory.
// Any other path, or a path whose home cannot be determined, is returned as is.
func ExpandHomePath(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, rest)
}
