package domain

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// UnknownFormat is reported when neither the path nor the content identifies the container.
const UnknownFormat = "Unknown"

// supportedFormats maps every supported extension to its format label.
var supportedFormats = map[string]string{
	"jpg":  "Jpeg",
	"jpeg": "Jpeg",
	"png":  "Png",
	"bmp":  "Bmp",
	"gif":  "Gif",
	"webp": "WebP",
	"tiff": "Tiff",
	"tif":  "Tiff",
}

type ImageFileRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	ModifiedAt int64  `json:"modified"`
	Extension  string `json:"extension"`
}

func NewImageFileRecord(id, path string, size int64, modifiedAt int64) ImageFileRecord {
	name := filepath.Base(path)
	return ImageFileRecord{
		ID:         id,
		Name:       name,
		Path:       path,
		Size:       size,
		ModifiedAt: modifiedAt,
		Extension:  NormalizeExtension(filepath.Ext(name)),
	}
}

func (r ImageFileRecord) Modified() time.Time {
	return time.Unix(r.ModifiedAt, 0).UTC()
}

type ImageMetadata struct {
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Format      string     `json:"format"`
	ColorType   string     `json:"color_type"`
	FileSize    int64      `json:"file_size"`
	TakenAt     *time.Time `json:"taken_at,omitempty"`
	CameraModel string     `json:"camera_model,omitempty"`
}

type ScanResult struct {
	Images     []ImageFileRecord `json:"images"`
	TotalCount int               `json:"total_count"`
	ScanTimeMs int64             `json:"scan_time_ms"`
}

// NormalizeExtension lower-cases ext and strips a leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func IsSupportedImage(ext string) bool {
	_, ok := supportedFormats[NormalizeExtension(ext)]
	return ok
}

// FormatForExtension returns the format label for a supported extension.
func FormatForExtension(ext string) (string, bool) {
	label, ok := supportedFormats[NormalizeExtension(ext)]
	return label, ok
}

// SupportedExtensions returns the supported extension set in sorted order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedFormats))
	for ext := range supportedFormats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
