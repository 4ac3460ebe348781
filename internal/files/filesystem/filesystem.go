package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// FileSystemProvider reads and writes whole files.
//
// Errors for missing paths satisfy errors.Is(err, fs.ErrNotExist).
type FileSystemProvider interface {
	// ReadFile reads a specific file at the given path
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file at path, creating parent directories as needed.
	WriteFile(path string, data []byte) error

	// ReadDir returns the entries of the directory at path, sorted by name.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)
}
