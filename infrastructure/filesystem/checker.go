package filesystem

import (
	"os"

	"clip-remix/domain/remix"
)

// Checker implements remix.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir returns true if path is an existing directory
func (c *Checker) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Ensure Checker implements remix.FileChecker
var _ remix.FileChecker = (*Checker)(nil)
