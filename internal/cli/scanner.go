package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/pretend/internal/utils"
)

// DirectoryScanner handles recursive directory scanning for Go files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// ScanDirectories returns the directories holding Go source files. A plain
// directory is scanned on its own; "dir/..." also covers its subdirectories.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	var recursive []string
	var dirs []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		base, isRecursive := splitPattern(pattern)
		abs, err := filepath.Abs(base)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", base, err)
		}

		if isRecursive {
			recursive = append(recursive, abs)
			continue
		}

		has, err := s.fileProcessor.HasGoFiles(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", base, err)
		}
		if has && !seen[abs] {
			seen[abs] = true
			dirs = append(dirs, abs)
		}
	}

	if len(recursive) > 0 {
		found, err := s.fileProcessor.ScanDirectoriesWithGoFiles(recursive)
		if err != nil {
			return nil, err
		}
		for _, dir := range found {
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs, nil
}

// splitPattern strips a trailing "/..." from a package pattern
func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	base, ok := strings.CutSuffix(filepath.ToSlash(pattern), "/...")
	if !ok {
		return pattern, false
	}
	if base == "" {
		base = "."
	}
	return filepath.FromSlash(base), true
}
