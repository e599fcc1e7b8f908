package app

import (
	"context"
	"errors"
	"time"

	"imgsel/internal/domain"
	appErrors "imgsel/internal/errors"
	"imgsel/internal/logging"
)

// Service exposes the operations the surrounding application calls.
type Service struct {
	Scanner   Scanner
	Metadata  MetadataReader
	Processor Processor
	FS        FileSystem
	Logger    logging.Logger
}

type Options struct {
	ScanWorkers  int
	BatchWorkers int
}

func NewService(fsys FileSystem, decoder ImageDecoder, exif ExifReader, logger logging.Logger, opts Options) Service {
	return Service{
		Scanner:   Scanner{FS: fsys, Workers: opts.ScanWorkers, Logger: logger},
		Metadata:  MetadataReader{FS: fsys, Decoder: decoder, Exif: exif, Logger: logger},
		Processor: Processor{FS: fsys, Workers: opts.BatchWorkers, Logger: logger},
		FS:        fsys,
		Logger:    logger,
	}
}

// WithProgress returns a copy whose scans and batches report to the given hooks.
func (s Service) WithProgress(onScan, onBatch ProgressFunc) Service {
	s.Scanner.OnProgress = onScan
	s.Processor.OnProgress = onBatch
	return s
}

func (s Service) ScanFolder(ctx context.Context, path string) (domain.ScanResult, error) {
	start := time.Now()
	images, err := s.Scanner.Scan(ctx, path)
	if err != nil {
		var appErr *appErrors.AppError
		if !errors.As(err, &appErr) {
			err = appErrors.Wrap(appErrors.Internal, "scan", path, err)
		}
		return domain.ScanResult{}, err
	}
	elapsed := time.Since(start)
	s.Logger.Infof("Scanned %s: %d images in %s", path, len(images), elapsed.Round(time.Millisecond))

	return domain.ScanResult{
		Images:     images,
		TotalCount: len(images),
		ScanTimeMs: elapsed.Milliseconds(),
	}, nil
}

func (s Service) GetImageMetadata(ctx context.Context, path string) (domain.ImageMetadata, error) {
	meta, err := s.Metadata.Read(ctx, path)
	if err != nil {
		var appErr *appErrors.AppError
		if !errors.As(err, &appErr) {
			err = appErrors.Wrap(appErrors.Internal, "metadata", path, err)
		}
		return domain.ImageMetadata{}, err
	}
	return meta, nil
}

func (s Service) BatchCopyFiles(ctx context.Context, files []domain.ImageFileRecord, targetPath string) domain.BatchResult {
	return s.batch(ctx, domain.OpCopy, files, targetPath)
}

func (s Service) BatchMoveFiles(ctx context.Context, files []domain.ImageFileRecord, targetPath string) domain.BatchResult {
	return s.batch(ctx, domain.OpMove, files, targetPath)
}

func (s Service) batch(ctx context.Context, kind domain.OperationKind, files []domain.ImageFileRecord, targetPath string) domain.BatchResult {
	ops := domain.OperationsFor(kind, files, targetPath)
	result := s.Processor.Process(ctx, ops)
	s.Logger.Infof("Batch %s to %s: %d succeeded, %d failed", kind, targetPath, result.SuccessCount, result.FailedCount)
	return result
}

// CreateDirectory creates path and any missing parents; an existing directory is not an error.
func (s Service) CreateDirectory(path string) error {
	if s.FS == nil {
		return appErrors.Wrap(appErrors.Internal, "mkdir", path, errors.New("service requires FS"))
	}
	if err := s.FS.MkdirAll(path, 0o755); err != nil {
		return appErrors.WrapIO("mkdir", path, err)
	}
	return nil
}
