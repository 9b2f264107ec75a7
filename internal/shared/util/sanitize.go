package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// FileExtension returns the sanitized lowercase extension of name, including
// the leading dot, or "" when there is none.
func FileExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if strings.ContainsAny(ext, "/\\") || strings.Contains(ext, "..") {
		return ""
	}
	return ext
}
