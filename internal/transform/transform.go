package transform

import (
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/davesmith10/colourmatrix/internal/ir"
	"github.com/davesmith10/colourmatrix/internal/matrix"
)

// Modulus wraps transformed channel values. Output channels therefore lie
// in [0, 254].
const Modulus = 255

// Option configures a Transformer.
type Option func(*Transformer)

// WithWorkers spreads rows across n goroutines. n <= 1 runs serially.
func WithWorkers(n int) Option {
	return func(t *Transformer) {
		t.workers = n
	}
}

// Transformer applies a colour matrix to every pixel of an image.
//
// Output channel i of a pixel (R,G,B) is the dot product of (R,G,B) with
// column i of the matrix, truncated toward zero, made non-negative and
// reduced modulo 255.
type Transformer struct {
	cols    [matrix.Size][matrix.Size]float64
	workers int
	img     *ir.RGBImage
}

// New prepares a Transformer for m. The matrix is already validated, so
// construction cannot fail.
func New(m *matrix.Matrix, opts ...Option) *Transformer {
	t := &Transformer{workers: 1}
	for i := range t.cols {
		t.cols[i] = m.Column(i)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Apply transforms img in place and returns it. Alpha is not touched.
func (t *Transformer) Apply(img *ir.RGBImage) *ir.RGBImage {
	if t.workers <= 1 || img.Height < 2 {
		for y := 0; y < img.Height; y++ {
			t.applyRow(img, y)
		}
	} else {
		t.applyParallel(img)
	}
	t.img = img
	return img
}

// Image returns the image most recently passed to Apply.
func (t *Transformer) Image() *ir.RGBImage {
	return t.img
}

// Colour transforms a single colour.
func (t *Transformer) Colour(r, g, b uint8) (uint8, uint8, uint8) {
	v := [matrix.Size]float64{float64(r), float64(g), float64(b)}
	return reduce(floats.Dot(v[:], t.cols[0][:])),
		reduce(floats.Dot(v[:], t.cols[1][:])),
		reduce(floats.Dot(v[:], t.cols[2][:]))
}

func (t *Transformer) applyAt(img *ir.RGBImage, x, y int) {
	r, g, b := t.Colour(img.At(x, y))
	img.Set(x, y, r, g, b)
}

func (t *Transformer) applyRow(img *ir.RGBImage, y int) {
	for x := 0; x < img.Width; x++ {
		t.applyAt(img, x, y)
	}
}

func (t *Transformer) applyParallel(img *ir.RGBImage) {
	band := (img.Height + t.workers - 1) / t.workers

	var g errgroup.Group
	g.SetLimit(t.workers)
	for y0 := 0; y0 < img.Height; y0 += band {
		y1 := min(y0+band, img.Height)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				t.applyRow(img, y)
			}
			return nil
		})
	}
	_ = g.Wait() // rows never fail
}

// reduce truncates v toward zero, saturating at the int32 range, and wraps
// its magnitude into [0, Modulus). NaN, which huge finite coefficients can
// produce as Inf-Inf, truncates to 0.
func reduce(v float64) uint8 {
	var n int64
	switch {
	case math.IsNaN(v):
		n = 0
	case v >= math.MaxInt32:
		n = math.MaxInt32
	case v <= math.MinInt32:
		n = math.MinInt32
	default:
		n = int64(v)
	}
	if n < 0 {
		n = -n
	}
	return uint8(n % Modulus)
}

// Apply transforms img in place with m and returns it.
func Apply(img *ir.RGBImage, m *matrix.Matrix, opts ...Option) *ir.RGBImage {
	return New(m, opts...).Apply(img)
}
