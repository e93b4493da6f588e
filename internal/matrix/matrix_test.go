package matrix

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRowMajor(t *testing.T) {
	m, err := Parse(strings.NewReader("1 2 3\n4 5 6\n7 8 9\n"))
	require.NoError(t, err)

	assert.Equal(t, 2.0, m.At(0, 1))
	assert.Equal(t, 4.0, m.At(1, 0))
	assert.Equal(t, 9.0, m.At(2, 2))
}

func TestColumnIsTransposed(t *testing.T) {
	m, err := FromRowMajor([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)

	assert.Equal(t, [3]float64{1, 4, 7}, m.Column(0))
	assert.Equal(t, [3]float64{2, 5, 8}, m.Column(1))
	assert.Equal(t, [3]float64{3, 6, 9}, m.Column(2))
}

func TestParseAcceptsAnyWhitespaceAndIgnoresTrailing(t *testing.T) {
	m, err := Parse(strings.NewReader("  0.5\t-1 2e1 0 0 0\n\n0 0 1.25 extra tokens"))
	require.NoError(t, err)

	assert.Equal(t, 0.5, m.At(0, 0))
	assert.Equal(t, -1.0, m.At(0, 1))
	assert.Equal(t, 20.0, m.At(0, 2))
	assert.Equal(t, 1.25, m.At(2, 2))
}

func TestParseShortInput(t *testing.T) {
	_, err := Parse(strings.NewReader("1 2 3 4"))
	assert.ErrorIs(t, err, ErrShortInput)

	_, err = Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrShortInput)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader("1 2 three 4 5 6 7 8 9"))
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), `"three"`)
}

func TestNonFiniteRejected(t *testing.T) {
	_, err := Parse(strings.NewReader("1 0 0 0 NaN 0 0 0 1"))
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = FromRowMajor([]float64{1, 0, 0, 0, 1, 0, 0, 0, math.Inf(-1)})
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestNewDimensions(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
	}{
		{"no rows", nil},
		{"two rows", [][]float64{{1, 0, 0}, {0, 1, 0}}},
		{"four rows", [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 0, 0}}},
		{"short row", [][]float64{{1, 0, 0}, {0, 1}, {0, 0, 1}}},
		{"long row", [][]float64{{1, 0, 0, 0}, {0, 1, 0}, {0, 0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rows)
			assert.ErrorIs(t, err, ErrInvalidDimensions)
		})
	}

	_, err := FromRowMajor([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestNewDoesNotAlias(t *testing.T) {
	rows := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	m, err := New(rows)
	require.NoError(t, err)

	rows[0][0] = 42
	assert.Equal(t, 1.0, m.At(0, 0))
}

func TestString(t *testing.T) {
	m, err := FromRowMajor([]float64{1, 0, 2.5, 0, 1, 0, -3, 0, 1})
	require.NoError(t, err)

	lines := strings.Split(m.String(), "\n")
	require.Len(t, lines, Size)
	assert.Contains(t, lines[0], "2.5")
	assert.Contains(t, lines[2], "-3")
}

func TestIdentity(t *testing.T) {
	m := Identity()
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.Equal(t, want, m.At(i, j), "(%d,%d)", i, j)
		}
	}
}
