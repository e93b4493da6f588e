// Package imageio loads raster images of any supported format into an
// ir.RGBImage.
package imageio

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/png"
	"os"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/davesmith10/colourmatrix/internal/ir"
	"github.com/davesmith10/colourmatrix/internal/jpeg"
)

var (
	ErrUnreadable    = errors.New("input image cannot be read")
	ErrUnknownFormat = errors.New("unknown image format")
)

// Format identifies a container format by its magic bytes.
type Format string

const (
	FormatUnknown Format = ""
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatGIF     Format = "gif"
	FormatBMP     Format = "bmp"
	FormatTIFF    Format = "tiff"
	FormatWebP    Format = "webp"
)

// Sniff guesses the format of data from its leading bytes.
func Sniff(data []byte) Format {
	switch {
	case jpeg.IsJPEG(data):
		return FormatJPEG
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return FormatGIF
	case bytes.HasPrefix(data, []byte("BM")):
		return FormatBMP
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return FormatTIFF
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP
	default:
		return FormatUnknown
	}
}

// Decode decodes data into an RGB image. JPEG goes through libjpeg so that
// an embedded ICC profile is kept; the other formats go through image.Decode.
func Decode(data []byte) (*ir.RGBImage, Format, error) {
	f := Sniff(data)
	switch f {
	case FormatUnknown:
		return nil, f, ErrUnknownFormat
	case FormatJPEG:
		img, err := jpeg.DecodeRGB(data)
		if err != nil {
			return nil, f, errors.Wrap(err, "decoding jpeg")
		}
		return img, f, nil
	}

	src, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, f, errors.Wrapf(err, "decoding %s", f)
	}
	return FromImage(src), Format(name), nil
}

// FromImage converts any image.Image into a non-premultiplied RGB image.
// An alpha plane is kept only when the source is not fully opaque.
func FromImage(src image.Image) *ir.RGBImage {
	b := src.Bounds()
	img := ir.NewRGBImage(b.Dx(), b.Dy())
	alpha := make([]byte, b.Dx()*b.Dy())
	opaque := true

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			img.Set(x, y, c.R, c.G, c.B)
			alpha[y*b.Dx()+x] = c.A
			if c.A != 0xFF {
				opaque = false
			}
		}
	}
	if !opaque {
		img.Alpha = alpha
	}
	return img
}

// ReadFile reads and decodes the image at path. Every failure wraps
// ErrUnreadable.
func ReadFile(path string) (*ir.RGBImage, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FormatUnknown, errors.Wrapf(ErrUnreadable, "%s: %v", path, err)
	}
	img, f, err := Decode(data)
	if err != nil {
		return nil, f, errors.Wrapf(ErrUnreadable, "%s: %v", path, err)
	}
	return img, f, nil
}
