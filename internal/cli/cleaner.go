package cli

import (
	"github.com/toyz/pretend/internal/utils"
)

// Cleaner removes generated client files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// CleanGeneratedFiles removes every generated file below the given patterns
// and returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	dirs := make([]string, len(patterns))
	for i, pattern := range patterns {
		dirs[i], _ = splitPattern(pattern)
	}
	return c.fileProcessor.CleanDirectories(dirs)
}
