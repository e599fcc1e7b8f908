package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Header describes an image whose pixel data decoded cleanly.
type Header struct {
	Width     int
	Height    int
	Container string // registered decoder name, e.g. "jpeg"
	ColorType string
}

type Decoder struct{}

// Inspect reads the header and then decodes the full image, so truncated or
// corrupt pixel data is reported even when the header is intact.
func (Decoder) Inspect(path string) (Header, error) {
	file, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer file.Close()

	cfg, name, err := image.DecodeConfig(file)
	if err != nil {
		return Header{}, err
	}

	// A valid header says nothing about the pixel data behind it.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return Header{}, err
	}
	if _, _, err := image.Decode(file); err != nil {
		return Header{}, fmt.Errorf("decode %s pixels: %w", name, err)
	}

	return Header{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Container: name,
		ColorType: ColorTypeLabel(cfg.ColorModel),
	}, nil
}

// ColorTypeLabel names a decoded color model by channel layout and bit depth.
func ColorTypeLabel(model color.Model) string {
	if _, ok := model.(color.Palette); ok {
		return "Indexed8"
	}
	switch model {
	case color.YCbCrModel:
		return "Rgb8"
	case color.NYCbCrAModel, color.RGBAModel, color.NRGBAModel:
		return "Rgba8"
	case color.RGBA64Model, color.NRGBA64Model:
		return "Rgba16"
	case color.GrayModel:
		return "L8"
	case color.Gray16Model:
		return "L16"
	case color.AlphaModel:
		return "A8"
	case color.Alpha16Model:
		return "A16"
	case color.CMYKModel:
		return "Cmyk8"
	default:
		return "Unknown"
	}
}
