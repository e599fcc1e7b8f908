package app

import (
	"context"
	"io/fs"

	"imgsel/internal/infra/imaging"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	EvalSymlinks(path string) (string, error)
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	CopyFile(src, dst string) error
	Rename(src, dst string) error
	Remove(path string) error
}

type ImageDecoder interface {
	Inspect(path string) (imaging.Header, error)
}

type ExifReader interface {
	Capture(ctx context.Context, path string) (imaging.Capture, error)
}

// ProgressFunc reports how many of total items have been handled.
type ProgressFunc func(current, total int)
