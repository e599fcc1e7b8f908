package app

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"imgsel/internal/infra/imaging"
)

type mockFS struct {
	entries  []mockEntry
	walkErrs map[string]error
	statErrs map[string]error

	mu         sync.Mutex
	renameErrs map[string]error
	copyErrs   map[string]error
	removeErrs map[string]error
	mkdirErrs  map[string]error
	calls      []string
	removed    []string
}

type mockEntry struct {
	path      string
	isDir     bool
	symlink   bool
	// linkToDir marks a symlink entry whose target is a directory.
	linkToDir bool
	size      int64
	modTime   time.Time
}

func (m *mockFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	for _, entry := range m.entries {
		dirEntry := mockDirEntry{name: filepath.Base(entry.path), isDir: entry.isDir, symlink: entry.symlink || entry.linkToDir}
		if err := fn(entry.path, dirEntry, m.walkErrs[entry.path]); err != nil {
			if errors.Is(err, fs.SkipDir) {
				continue
			}
			return err
		}
	}
	return nil
}

func (m *mockFS) EvalSymlinks(path string) (string, error) {
	return path, nil
}

func (m *mockFS) Stat(path string) (fs.FileInfo, error) {
	if err, ok := m.statErrs[path]; ok {
		return nil, err
	}
	for _, entry := range m.entries {
		if entry.path == path {
			return mockFileInfo{name: filepath.Base(path), size: entry.size, modTime: entry.modTime, isDir: entry.isDir || entry.linkToDir}, nil
		}
	}
	return nil, fs.ErrNotExist
}

func (m *mockFS) Exists(path string) (bool, error) {
	_, err := m.Stat(path)
	return err == nil, nil
}

func (m *mockFS) MkdirAll(path string, perm fs.FileMode) error {
	m.record("mkdir " + path)
	return m.mkdirErrs[path]
}

func (m *mockFS) CopyFile(src, dst string) error {
	m.record("copy " + src + " " + dst)
	return m.copyErrs[src]
}

func (m *mockFS) Rename(src, dst string) error {
	m.record("rename " + src + " " + dst)
	return m.renameErrs[src]
}

func (m *mockFS) Remove(path string) error {
	m.record("remove " + path)
	if err := m.removeErrs[path]; err != nil {
		return err
	}
	m.mu.Lock()
	m.removed = append(m.removed, path)
	m.mu.Unlock()
	return nil
}

func (m *mockFS) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

type mockDirEntry struct {
	name    string
	isDir   bool
	symlink bool
}

func (m mockDirEntry) Name() string { return m.name }
func (m mockDirEntry) IsDir() bool  { return m.isDir }
func (m mockDirEntry) Type() fs.FileMode {
	switch {
	case m.isDir:
		return fs.ModeDir
	case m.symlink:
		return fs.ModeSymlink
	}
	return 0
}
func (m mockDirEntry) Info() (fs.FileInfo, error) { return nil, nil }

type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
}

func (m mockFileInfo) Name() string       { return m.name }
func (m mockFileInfo) Size() int64        { return m.size }
func (m mockFileInfo) ModTime() time.Time { return m.modTime }
func (m mockFileInfo) IsDir() bool        { return m.isDir }
func (m mockFileInfo) Sys() interface{}   { return nil }
func (m mockFileInfo) Mode() fs.FileMode {
	if m.isDir {
		return fs.ModeDir
	}
	return 0
}

type mockDecoder struct {
	headers map[string]imaging.Header
	err     error
}

func (m mockDecoder) Inspect(path string) (imaging.Header, error) {
	if m.err != nil {
		return imaging.Header{}, m.err
	}
	if h, ok := m.headers[path]; ok {
		return h, nil
	}
	return imaging.Header{}, errors.New("image: unknown format")
}

type mockExif struct {
	captures map[string]imaging.Capture
}

func (m mockExif) Capture(ctx context.Context, path string) (imaging.Capture, error) {
	if c, ok := m.captures[path]; ok {
		return c, nil
	}
	return imaging.Capture{}, errors.New("missing exif")
}
