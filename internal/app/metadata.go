package app

import (
	"context"
	"errors"
	"path/filepath"

	"imgsel/internal/domain"
	appErrors "imgsel/internal/errors"
	"imgsel/internal/logging"
)

var containerLabels = map[string]string{
	"jpeg": "Jpeg",
	"png":  "Png",
	"gif":  "Gif",
	"bmp":  "Bmp",
	"tiff": "Tiff",
	"webp": "WebP",
}

// MetadataReader reports dimensions, formats and size for a single image file.
// It only reads the file and holds no state, so concurrent calls are safe.
type MetadataReader struct {
	FS      FileSystem
	Decoder ImageDecoder
	Exif    ExifReader // optional
	Logger  logging.Logger
}

func (m MetadataReader) Read(ctx context.Context, path string) (domain.ImageMetadata, error) {
	if m.FS == nil || m.Decoder == nil {
		return domain.ImageMetadata{}, errors.New("metadata reader requires FS and Decoder")
	}
	if err := ctx.Err(); err != nil {
		return domain.ImageMetadata{}, err
	}

	info, err := m.FS.Stat(path)
	if err != nil {
		return domain.ImageMetadata{}, appErrors.WrapIO("stat", path, err)
	}

	header, err := m.Decoder.Inspect(path)
	if err != nil {
		if kind := appErrors.Classify(err); kind == appErrors.NotFound || kind == appErrors.PermissionDenied {
			return domain.ImageMetadata{}, appErrors.Wrap(kind, "open", path, err)
		}
		return domain.ImageMetadata{}, appErrors.Wrap(appErrors.DecodeFailure, "decode", path, err)
	}

	meta := domain.ImageMetadata{
		Width:     header.Width,
		Height:    header.Height,
		Format:    formatLabel(path, header.Container),
		ColorType: header.ColorType,
		FileSize:  info.Size(),
	}

	if m.Exif != nil && (meta.Format == "Jpeg" || meta.Format == "Tiff") {
		capture, err := m.Exif.Capture(ctx, path)
		if err != nil {
			m.Logger.Verbosef("No EXIF capture data for %s: %v", filepath.Base(path), err)
		} else {
			meta.TakenAt = capture.TakenAt
			meta.CameraModel = capture.CameraModel
		}
	}

	return meta, nil
}

// formatLabel prefers the path's extension, then the sniffed container.
func formatLabel(path, container string) string {
	if label, ok := domain.FormatForExtension(filepath.Ext(path)); ok {
		return label
	}
	if label, ok := containerLabels[container]; ok {
		return label
	}
	return domain.UnknownFormat
}
