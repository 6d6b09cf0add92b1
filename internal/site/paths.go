package site

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// safeJoin resolves a slash separated relative path under root.
func safeJoin(root, rel string) (string, error) {
	if root == "" {
		return "", errors.New("destination directory is required")
	}
	if rel == "" {
		return "", errors.New("output path is required")
	}

	cleanRel := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleanRel) || cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", errors.New("output path must stay inside the destination")
	}

	full := filepath.Join(root, cleanRel)
	back, err := filepath.Rel(root, full)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", errors.New("output path escapes the destination")
	}
	return full, nil
}

// WriteFile atomically writes data to dest/rel, creating parent directories.
// An existing file is replaced.
func WriteFile(dest, rel string, data []byte) (string, error) {
	full, err := safeJoin(dest, rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), dirPerm); err != nil {
		return "", err
	}
	if err := atomic.WriteFile(full, bytes.NewReader(data)); err != nil {
		return "", err
	}
	// Rendered sites are served to readers; the temp file starts at 0600.
	if err := os.Chmod(full, filePerm); err != nil {
		return "", err
	}
	return full, nil
}
