package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GeneratedFileName is the file written into every package with clients
const GeneratedFileName = "autogen_pretend.go"

// FileFilter reports whether a directory entry should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter reports whether a directory should be descended into
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileProcessor provides the directory walking used by scanning and cleaning
type FileProcessor struct {
	dirFilter DirectoryFilter
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{dirFilter: DefaultDirectoryFilter()}
}

// SourceFileFilter accepts .go files, excluding tests and generated output
func SourceFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			name != GeneratedFileName
	}
}

// GeneratedFileFilter accepts only generated client files
func GeneratedFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		return !info.IsDir() && info.Name() == GeneratedFileName
	}
}

// DefaultDirectoryFilter skips directories that never hold client definitions
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles returns every file under rootDir accepted by filter
func (fp *FileProcessor) WalkFiles(rootDir string, filter FileFilter) ([]string, error) {
	var matched []string
	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != rootDir && !fp.dirFilter(path, d) {
				return filepath.SkipDir
			}
			return nil
		}
		if filter(path, d) {
			matched = append(matched, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", rootDir, err)
	}
	return matched, nil
}

// ScanDirectoriesWithGoFiles returns the directories under rootDirs that
// contain source files, each once, in lexical order
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	for _, root := range rootDirs {
		files, err := fp.WalkFiles(root, SourceFileFilter())
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			dir := filepath.Dir(f)
			abs, err := filepath.Abs(dir)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
			}
			if !seen[abs] {
				seen[abs] = true
				dirs = append(dirs, dir)
			}
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

// HasGoFiles checks if a directory contains source files
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	filter := SourceFileFilter()
	for _, entry := range entries {
		if filter(filepath.Join(dir, entry.Name()), entry) {
			return true, nil
		}
	}
	return false, nil
}

// CleanDirectories removes generated client files below baseDirs
func (fp *FileProcessor) CleanDirectories(baseDirs []string) ([]string, error) {
	var removed []string
	for _, baseDir := range baseDirs {
		if baseDir == "" {
			baseDir = "."
		}
		if _, err := os.Stat(baseDir); os.IsNotExist(err) {
			continue
		}

		files, err := fp.WalkFiles(baseDir, GeneratedFileFilter())
		if err != nil {
			return removed, err
		}
		for _, f := range files {
			if err := os.Remove(f); err != nil {
				return removed, fmt.Errorf("failed to remove %s: %w", f, err)
			}
			removed = append(removed, f)
		}
	}
	return removed, nil
}
