package filesystem

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryFile struct {
	content []byte
	info    *memoryFileInfo
}

// MemoryFileSystem implements FileSystemProvider in memory. Relative paths are
// resolved against root. Safe for concurrent use.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string]*memoryFile
	root  string
}

// NewMemoryFileSystem creates a new in-memory filesystem.
// The root path is normalized to forward slashes.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))

	mfs := &MemoryFileSystem{
		files: make(map[string]*memoryFile),
		root:  root,
	}
	mfs.files[root] = newDirEntry(root)
	return mfs
}

func newDirEntry(p string) *memoryFile {
	return &memoryFile{info: &memoryFileInfo{
		name:    path.Base(p),
		mode:    0755 | fs.ModeDir,
		modTime: time.Now(),
		isDir:   true,
	}}
}

// AddFile adds a file to the in-memory filesystem.
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	_ = mfs.WriteFile(filePath, []byte(content))
}

func (mfs *MemoryFileSystem) abs(p string) string {
	p = filepath.ToSlash(p)
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	f, ok := mfs.files[mfs.abs(filePath)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: filePath, Err: fs.ErrNotExist}
	}
	if f.info.isDir {
		return nil, &fs.PathError{Op: "read", Path: filePath, Err: fs.ErrInvalid}
	}
	out := make([]byte, len(f.content))
	copy(out, f.content)
	return out, nil
}

func (mfs *MemoryFileSystem) WriteFile(filePath string, data []byte) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	absPath := mfs.abs(filePath)
	if existing, ok := mfs.files[absPath]; ok && existing.info.isDir {
		return &fs.PathError{Op: "write", Path: filePath, Err: fs.ErrInvalid}
	}

	content := make([]byte, len(data))
	copy(content, data)
	mfs.files[absPath] = &memoryFile{
		content: content,
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			size:    int64(len(content)),
			mode:    0644,
			modTime: time.Now(),
		},
	}
	mfs.ensureDirectoriesExist(absPath)
	return nil
}

func (mfs *MemoryFileSystem) ensureDirectoriesExist(filePath string) {
	for dir := path.Dir(filePath); dir != "/" && dir != "."; dir = path.Dir(dir) {
		if _, exists := mfs.files[dir]; exists {
			return
		}
		mfs.files[dir] = newDirEntry(dir)
	}
}

func (mfs *MemoryFileSystem) ReadDir(dirPath string) ([]FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	absPath := mfs.abs(dirPath)
	dir, ok := mfs.files[absPath]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: dirPath, Err: fs.ErrNotExist}
	}
	if !dir.info.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: dirPath, Err: fs.ErrInvalid}
	}

	prefix := absPath + "/"
	if absPath == "/" {
		prefix = "/"
	}
	var infos []FileInfo
	for p, f := range mfs.files {
		rest, ok := strings.CutPrefix(p, prefix)
		if !ok || rest == "" || strings.Contains(rest, "/") {
			continue
		}
		infos = append(infos, f.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
	return infos, nil
}

func (mfs *MemoryFileSystem) Stat(filePath string) (FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	f, ok := mfs.files[mfs.abs(filePath)]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: filePath, Err: fs.ErrNotExist}
	}
	return f.info, nil
}
