package imaging

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
)

// Capture holds the EXIF fields surfaced with image metadata.
type Capture struct {
	TakenAt     *time.Time
	CameraModel string
}

type ExifReader struct{}

func (ExifReader) Capture(ctx context.Context, path string) (Capture, error) {
	select {
	case <-ctx.Done():
		return Capture{}, ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return Capture{}, err
	}
	defer file.Close()

	x, err := goexif.Decode(file)
	if err != nil {
		return Capture{}, err
	}

	var out Capture
	if taken, err := dateTimeOriginal(x); err == nil {
		out.TakenAt = &taken
	}
	if tag, err := x.Get(goexif.Model); err == nil {
		if str, err := tag.StringVal(); err == nil {
			out.CameraModel = strings.TrimSpace(str)
		}
	}
	if out.TakenAt == nil && out.CameraModel == "" {
		return Capture{}, errors.New("exif capture fields not found")
	}
	return out, nil
}

func dateTimeOriginal(x *goexif.Exif) (time.Time, error) {
	if tag, err := x.Get(goexif.DateTimeOriginal); err == nil {
		if str, err := tag.StringVal(); err == nil {
			parsed, err := time.Parse("2006:01:02 15:04:05", str)
			if err == nil {
				return parsed, nil
			}
		}
	}
	return x.DateTime()
}
