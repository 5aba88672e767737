// Package logfile reads analyzer output from the local filesystem.
package logfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Reader loads analyzer logs from disk. Relative paths are resolved
// against the configured base directory.
type Reader struct {
	baseDir string
}

// NewReader creates a Reader rooted at baseDir. An empty baseDir
// resolves relative paths against the process working directory.
func NewReader(baseDir string) *Reader {
	return &Reader{baseDir: baseDir}
}

// ReadLog returns the contents of the log file at path.
func (r *Reader) ReadLog(path string) (string, error) {
	resolved := path
	if r.baseDir != "" && !filepath.IsAbs(path) {
		resolved = filepath.Join(r.baseDir, path)
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return "", fmt.Errorf("read analyzer log: %w", err)
	}
	return string(raw), nil
}
