package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/google/uuid"

	"imgsel/internal/domain"
	appErrors "imgsel/internal/errors"
	"imgsel/internal/logging"
)

// Scanner walks a directory tree and collects the supported images inside it.
type Scanner struct {
	FS         FileSystem
	Workers    int
	Logger     logging.Logger
	OnProgress ProgressFunc

	// NewID defaults to a random UUID.
	NewID func() string
}

// Scan returns one record per supported image below root, sorted by name.
// Entries that cannot be read are logged and skipped.
func (s Scanner) Scan(ctx context.Context, root string) ([]domain.ImageFileRecord, error) {
	if s.FS == nil {
		return nil, errors.New("scanner requires FS")
	}

	stop := s.Logger.Measure("Scanning " + root)
	defer stop()

	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	info, err := s.FS.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Wrap(appErrors.NotFound, "scan", root, err)
		}
		return nil, appErrors.WrapIO("scan", root, err)
	}
	if !info.IsDir() {
		s.Logger.Verbosef("%s is not a directory, nothing to scan", root)
		return []domain.ImageFileRecord{}, nil
	}

	// Entries below root are never followed, but root itself may be a link.
	walkRoot, err := s.FS.EvalSymlinks(root)
	if err != nil {
		return nil, appErrors.WrapIO("scan", root, err)
	}

	paths, err := s.collect(ctx, root, walkRoot)
	if err != nil {
		return nil, err
	}
	s.Logger.Verbosef("Found %d candidate images in %s", len(paths), root)

	records, err := s.stat(ctx, paths)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Name == records[j].Name {
			return records[i].Path < records[j].Path
		}
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// collect walks walkRoot and returns candidate paths rebased onto root.
func (s Scanner) collect(ctx context.Context, root, walkRoot string) ([]string, error) {
	var paths []string
	err := s.FS.WalkDir(walkRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkErr != nil {
			s.Logger.Warnf("Skipping %s: %v", path, walkErr)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		ext := filepath.Ext(name)
		if ext == "" || ext == name {
			return nil
		}
		if !domain.IsSupportedImage(ext) {
			return nil
		}
		// Links are kept as candidates; the stat step follows them and drops
		// anything that is not a regular file.
		if rel, err := filepath.Rel(walkRoot, path); err == nil && walkRoot != root {
			path = filepath.Join(root, rel)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func (s Scanner) stat(ctx context.Context, paths []string) ([]domain.ImageFileRecord, error) {
	workerCount := s.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount > len(paths) {
		workerCount = len(paths)
	}
	if workerCount < 1 {
		workerCount = 1
	}
	s.Logger.Verbosef("Using %d stat workers", workerCount)

	newID := s.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	type result struct {
		record domain.ImageFileRecord
		err    error
	}

	jobs := make(chan string)
	results := make(chan result)

	for i := 0; i < workerCount; i++ {
		go func() {
			for path := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{err: err}
					continue
				}
				record, err := s.buildRecord(path, newID)
				results <- result{record: record, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range paths {
			jobs <- path
		}
	}()

	records := make([]domain.ImageFileRecord, 0, len(paths))
	total := len(paths)
	for i := range paths {
		res := <-results
		if res.err != nil {
			if !errors.Is(res.err, context.Canceled) && !errors.Is(res.err, context.DeadlineExceeded) {
				s.Logger.Warnf("Skipping entry: %v", res.err)
			}
		} else {
			records = append(records, res.record)
		}
		if s.OnProgress != nil {
			s.OnProgress(i+1, total)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s Scanner) buildRecord(path string, newID func() string) (domain.ImageFileRecord, error) {
	info, err := s.FS.Stat(path)
	if err != nil {
		return domain.ImageFileRecord{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.ImageFileRecord{}, fmt.Errorf("%s links to a directory", path)
	}
	if !info.Mode().IsRegular() {
		return domain.ImageFileRecord{}, fmt.Errorf("%s is not a regular file", path)
	}
	modified := info.ModTime().Unix()
	if modified < 0 {
		return domain.ImageFileRecord{}, fmt.Errorf("%s: modification time %s predates the Unix epoch", path, info.ModTime())
	}
	return domain.NewImageFileRecord(newID(), path, info.Size(), modified), nil
}
