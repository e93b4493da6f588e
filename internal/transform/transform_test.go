package transform

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davesmith10/colourmatrix/internal/ir"
	"github.com/davesmith10/colourmatrix/internal/matrix"
)

func mustMatrix(t *testing.T, vals ...float64) *matrix.Matrix {
	t.Helper()
	m, err := matrix.FromRowMajor(vals)
	require.NoError(t, err)
	return m
}

// randomImage returns a w x h image with deterministic pseudo-random pixels.
func randomImage(w, h int, seed int64) *ir.RGBImage {
	rng := rand.New(rand.NewSource(seed))
	img := ir.NewRGBImage(w, h)
	rng.Read(img.Pixels)
	return img
}

func TestScenario2x2(t *testing.T) {
	img := ir.NewRGBImage(2, 2)
	img.Set(0, 0, 10, 20, 30)
	img.Set(1, 0, 0, 0, 0)
	img.Set(0, 1, 255, 255, 255)
	img.Set(1, 1, 128, 128, 128)

	// columns: col0=(1,1,1) col1=(0,1,0) col2=(1,0,1)
	m := mustMatrix(t,
		1, 0, 1,
		1, 1, 0,
		1, 0, 1,
	)
	out := Apply(img, m)
	require.Same(t, img, out)

	want := map[[2]int][3]uint8{
		{0, 0}: {60, 20, 40},
		{1, 0}: {0, 0, 0},
		{0, 1}: {0, 0, 0},     // 765, 255, 510 all wrap to 0
		{1, 1}: {129, 128, 1}, // 384, 128, 256
	}
	for xy, c := range want {
		r, g, b := out.At(xy[0], xy[1])
		assert.Equal(t, c, [3]uint8{r, g, b}, "pixel %v", xy)
	}
}

func TestIdentityWrapsOnly255(t *testing.T) {
	img := ir.NewRGBImage(256, 1)
	for x := 0; x < 256; x++ {
		img.Set(x, 0, uint8(x), uint8(255-x), uint8(x))
	}
	Apply(img, matrix.Identity())

	for x := 0; x < 256; x++ {
		r, g, b := img.At(x, 0)
		assert.Equal(t, uint8(x%255), r, "x=%d", x)
		assert.Equal(t, uint8((255-x)%255), g, "x=%d", x)
		assert.Equal(t, uint8(x%255), b, "x=%d", x)
	}
}

func TestZeroMatrix(t *testing.T) {
	img := randomImage(7, 5, 1)
	Apply(img, mustMatrix(t, 0, 0, 0, 0, 0, 0, 0, 0, 0))

	assert.Equal(t, make([]byte, len(img.Pixels)), img.Pixels)
}

func TestNegativeAndFractionalCoefficients(t *testing.T) {
	tr := New(mustMatrix(t,
		-1, 0.5, 0,
		0, 0.5, 0,
		0, 0.5, -0.5,
	))

	// col0=(-1,0,0) col1=(0.5,0.5,0.5) col2=(0,0,-0.5)
	r, g, b := tr.Colour(10, 1, 3)
	assert.Equal(t, uint8(10), r) // |-10|
	assert.Equal(t, uint8(7), g)  // trunc(7.0)
	assert.Equal(t, uint8(1), b)  // |trunc(-1.5)|
}

func TestReduce(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{0.99, 0},
		{-0.99, 0},
		{254.9, 254},
		{255, 0},
		{256, 1},
		{-256, 1},
		{510.5, 0},
		{1e300, 2147483647 % 255},
		{-1e300, 2147483648 % 255},
		{math.Inf(1), 2147483647 % 255},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reduce(tt.in), "reduce(%v)", tt.in)
	}
}

func TestOverflowingDotProductIsZero(t *testing.T) {
	// col0=(1e308,-1e308,0): 255e308 - 255e308 is Inf - Inf = NaN.
	tr := New(mustMatrix(t,
		1e308, 0, 0,
		-1e308, 0, 0,
		0, 0, 0,
	))
	r, g, b := tr.Colour(255, 255, 0)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b})
}

func TestAlphaUntouched(t *testing.T) {
	img := randomImage(4, 3, 2)
	img.Alpha = []byte{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 255}
	alpha := append([]byte(nil), img.Alpha...)

	Apply(img, mustMatrix(t, 2, 0, 0, 0, 3, 0, 0, 0, 4))
	assert.Equal(t, alpha, img.Alpha)
}

func TestOrderIndependence(t *testing.T) {
	m := mustMatrix(t,
		0.3, -1.2, 2,
		0.59, 0.7, -0.1,
		0.11, 1.5, 0.9,
	)
	src := randomImage(37, 23, 3)

	rowMajor := New(m).Apply(src.Clone())

	colMajor := src.Clone()
	tr := New(m)
	for x := 0; x < colMajor.Width; x++ {
		for y := 0; y < colMajor.Height; y++ {
			tr.applyAt(colMajor, x, y)
		}
	}

	for _, workers := range []int{2, 3, 8, 64} {
		parallel := New(m, WithWorkers(workers)).Apply(src.Clone())
		if diff := cmp.Diff(rowMajor.Pixels, parallel.Pixels); diff != "" {
			t.Errorf("workers=%d differs from serial (-serial +parallel):\n%s", workers, diff)
		}
	}
	if diff := cmp.Diff(rowMajor.Pixels, colMajor.Pixels); diff != "" {
		t.Errorf("column-major differs from row-major (-row +col):\n%s", diff)
	}
}

func TestLossy(t *testing.T) {
	// (255,0,0) and (0,0,0) collapse to the same colour under the identity.
	tr := New(matrix.Identity())
	r1, g1, b1 := tr.Colour(255, 0, 0)
	r2, g2, b2 := tr.Colour(0, 0, 0)
	assert.Equal(t, [3]uint8{r1, g1, b1}, [3]uint8{r2, g2, b2})

	// Scaling by 2 then by 0.5 does not give back the input.
	double := New(mustMatrix(t, 2, 0, 0, 0, 2, 0, 0, 0, 2))
	half := New(mustMatrix(t, 0.5, 0, 0, 0, 0.5, 0, 0, 0, 0.5))
	r, g, b := half.Colour(double.Colour(200, 100, 7))
	assert.NotEqual(t, [3]uint8{200, 100, 7}, [3]uint8{r, g, b})
}

func TestImageAccessor(t *testing.T) {
	tr := New(matrix.Identity())
	assert.Nil(t, tr.Image())

	img := randomImage(3, 3, 4)
	tr.Apply(img)
	assert.Same(t, img, tr.Image())
}

func TestEmptyImage(t *testing.T) {
	img := ir.NewRGBImage(0, 0)
	assert.NotPanics(t, func() { New(matrix.Identity(), WithWorkers(4)).Apply(img) })
}
