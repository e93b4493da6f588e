package matrix

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Size is the number of rows and columns of a colour matrix.
const Size = 3

var (
	ErrInvalidDimensions = errors.New("invalid matrix dimensions")
	ErrNonFinite         = errors.New("matrix coefficient is not finite")
	ErrShortInput        = errors.New("expected 9 matrix coefficients")
	ErrMalformed         = errors.New("malformed matrix coefficient")
)

// Matrix is an immutable 3x3 matrix of colour coefficients.
type Matrix struct {
	d *mat.Dense
}

// New builds a matrix from rows. Exactly three rows of three finite values
// are required.
func New(rows [][]float64) (*Matrix, error) {
	if len(rows) != Size {
		return nil, errors.Wrapf(ErrInvalidDimensions, "got %d rows", len(rows))
	}
	vals := make([]float64, 0, Size*Size)
	for r, row := range rows {
		if len(row) != Size {
			return nil, errors.Wrapf(ErrInvalidDimensions, "row %d has %d columns", r, len(row))
		}
		vals = append(vals, row...)
	}
	return FromRowMajor(vals)
}

// FromRowMajor builds a matrix from nine values listed top-to-bottom,
// left-to-right.
func FromRowMajor(vals []float64) (*Matrix, error) {
	if len(vals) != Size*Size {
		return nil, errors.Wrapf(ErrInvalidDimensions, "got %d values", len(vals))
	}
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(ErrNonFinite, "row %d column %d is %v", i/Size, i%Size, v)
		}
	}
	data := append([]float64(nil), vals...)
	return &Matrix{d: mat.NewDense(Size, Size, data)}, nil
}

// Identity returns the 3x3 identity matrix.
func Identity() *Matrix {
	d := mat.NewDense(Size, Size, nil)
	for i := 0; i < Size; i++ {
		d.Set(i, i, 1)
	}
	return &Matrix{d: d}
}

// Parse reads nine whitespace-separated numbers from r in row-major order.
// Anything after the ninth number is left unread or ignored.
func Parse(r io.Reader) (*Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	vals := make([]float64, 0, Size*Size)
	for len(vals) < Size*Size {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, errors.Wrap(err, "reading matrix")
			}
			return nil, errors.Wrapf(ErrShortInput, "got %d", len(vals))
		}
		tok := sc.Text()
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "%q", tok)
		}
		vals = append(vals, v)
	}
	return FromRowMajor(vals)
}

// At returns the coefficient at row r, column c.
func (m *Matrix) At(r, c int) float64 {
	return m.d.At(r, c)
}

// Column returns (m[0][i], m[1][i], m[2][i]), the coefficients that produce
// output channel i.
func (m *Matrix) Column(i int) [Size]float64 {
	var col [Size]float64
	mat.Col(col[:], i, m.d)
	return col
}

// String formats the matrix one row per line.
func (m *Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(m.d))
}
