package app

import (
	"context"
	"errors"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"imgsel/internal/domain"
	appErrors "imgsel/internal/errors"
	osfs "imgsel/internal/infra/fs"
	"imgsel/internal/infra/imaging"
)

func TestMetadataReaderCombinesHeaderAndSize(t *testing.T) {
	path := "/photos/a.jpg"
	taken := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	reader := MetadataReader{
		FS: &mockFS{entries: []mockEntry{{path: path, size: 1234}}},
		Decoder: mockDecoder{headers: map[string]imaging.Header{
			path: {Width: 640, Height: 480, Container: "jpeg", ColorType: "Rgb8"},
		}},
		Exif: mockExif{captures: map[string]imaging.Capture{
			path: {TakenAt: &taken, CameraModel: "ILCE-7M3"},
		}},
	}

	meta, err := reader.Read(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Width != 640 || meta.Height != 480 || meta.FileSize != 1234 {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if meta.Format != "Jpeg" || meta.ColorType != "Rgb8" {
		t.Fatalf("unexpected labels %q %q", meta.Format, meta.ColorType)
	}
	if meta.TakenAt == nil || !meta.TakenAt.Equal(taken) || meta.CameraModel != "ILCE-7M3" {
		t.Fatalf("expected EXIF capture data, got %+v", meta)
	}
}

func TestMetadataReaderFormatFallsBackToContainer(t *testing.T) {
	path := "/photos/mystery.dat"
	reader := MetadataReader{
		FS:      &mockFS{entries: []mockEntry{{path: path}}},
		Decoder: mockDecoder{headers: map[string]imaging.Header{path: {Width: 1, Height: 1, Container: "png"}}},
	}
	meta, err := reader.Read(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Format != "Png" {
		t.Fatalf("expected Png, got %q", meta.Format)
	}

	if got := formatLabel("/x/file.bin", "qoi"); got != domain.UnknownFormat {
		t.Fatalf("expected %q, got %q", domain.UnknownFormat, got)
	}
}

func TestMetadataReaderDecodeFailure(t *testing.T) {
	path := "/photos/broken.png"
	reader := MetadataReader{
		FS:      &mockFS{entries: []mockEntry{{path: path, size: 10}}},
		Decoder: mockDecoder{err: errors.New("png: invalid format: not a PNG file")},
	}
	_, err := reader.Read(context.Background(), path)
	if appErrors.KindOf(err) != appErrors.DecodeFailure {
		t.Fatalf("expected decode_failure, got %v", err)
	}
}

func TestMetadataReaderStatFailure(t *testing.T) {
	path := "/photos/gone.png"
	reader := MetadataReader{
		FS:      &mockFS{statErrs: map[string]error{path: fs.ErrPermission}},
		Decoder: mockDecoder{},
	}
	_, err := reader.Read(context.Background(), path)
	if appErrors.KindOf(err) != appErrors.PermissionDenied {
		t.Fatalf("expected permission_denied, got %v", err)
	}
}

func TestMetadataReaderCorruptPNGOnDisk(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	bad := filepath.Join(dir, "bad.png")

	f, err := os.Create(good)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()
	if err := os.WriteFile(bad, []byte("definitely not pixels"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reader := MetadataReader{FS: osfs.OSFS{}, Decoder: imaging.Decoder{}, Exif: imaging.ExifReader{}}

	meta, err := reader.Read(context.Background(), good)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Width != 3 || meta.Height != 2 || meta.Format != "Png" || meta.ColorType != "L8" {
		t.Fatalf("unexpected metadata %+v", meta)
	}

	_, err = reader.Read(context.Background(), bad)
	if appErrors.KindOf(err) != appErrors.DecodeFailure {
		t.Fatalf("expected decode_failure, got %v", err)
	}
}

func TestMetadataReaderTruncatedPNGOnDisk(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "full.png")
	f, err := os.Create(full)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = byte(i * 13)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	data, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	truncated := filepath.Join(dir, "truncated.png")
	if err := os.WriteFile(truncated, data[:60], 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reader := MetadataReader{FS: osfs.OSFS{}, Decoder: imaging.Decoder{}}
	meta, err := reader.Read(context.Background(), truncated)
	if appErrors.KindOf(err) != appErrors.DecodeFailure {
		t.Fatalf("expected decode_failure, got meta=%+v err=%v", meta, err)
	}
}
