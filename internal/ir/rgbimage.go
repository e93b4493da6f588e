package ir

import "fmt"

// RGBImage is the intermediate representation passed between the decoders,
// the pixel transform and the JPEG encoder. Pixels are stored as interleaved
// R,G,B bytes (3 bytes per pixel, row-major order).
type RGBImage struct {
	Width  int
	Height int
	Pixels []byte // len = Width * Height * 3
	Alpha  []byte // optional, len = Width * Height; nil for opaque images
	ICC    []byte // ICC profile carried over from the input, nil if absent
}

// NewRGBImage allocates a zeroed opaque image.
func NewRGBImage(width, height int) *RGBImage {
	return &RGBImage{
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*3),
	}
}

// Validate checks that the buffers match the declared dimensions.
func (m *RGBImage) Validate() error {
	if m.Width < 0 || m.Height < 0 {
		return fmt.Errorf("invalid dimensions %dx%d", m.Width, m.Height)
	}
	if want := m.Width * m.Height * 3; len(m.Pixels) != want {
		return fmt.Errorf("expected %d RGB bytes for %dx%d, got %d", want, m.Width, m.Height, len(m.Pixels))
	}
	if m.Alpha != nil && len(m.Alpha) != m.Width*m.Height {
		return fmt.Errorf("expected %d alpha bytes for %dx%d, got %d", m.Width*m.Height, m.Width, m.Height, len(m.Alpha))
	}
	return nil
}

func (m *RGBImage) offset(x, y int) int {
	return (y*m.Width + x) * 3
}

// At returns the colour of the pixel at (x, y).
func (m *RGBImage) At(x, y int) (r, g, b uint8) {
	i := m.offset(x, y)
	return m.Pixels[i], m.Pixels[i+1], m.Pixels[i+2]
}

// Set overwrites the colour of the pixel at (x, y). Alpha is left alone.
func (m *RGBImage) Set(x, y int, r, g, b uint8) {
	i := m.offset(x, y)
	m.Pixels[i] = r
	m.Pixels[i+1] = g
	m.Pixels[i+2] = b
}

// Clone returns a deep copy, for callers that need the original pixels
// after an in-place transform.
func (m *RGBImage) Clone() *RGBImage {
	c := &RGBImage{
		Width:  m.Width,
		Height: m.Height,
		Pixels: append([]byte(nil), m.Pixels...),
	}
	if m.Alpha != nil {
		c.Alpha = append([]byte(nil), m.Alpha...)
	}
	if m.ICC != nil {
		c.ICC = append([]byte(nil), m.ICC...)
	}
	return c
}
