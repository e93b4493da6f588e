package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"github.com/davesmith10/colourmatrix/internal/color"
	"github.com/davesmith10/colourmatrix/internal/ir"
	"github.com/davesmith10/colourmatrix/internal/jpeg"
	"github.com/davesmith10/colourmatrix/internal/matrix"
	"github.com/davesmith10/colourmatrix/internal/transform"
)

// Options controls a transform → encode run.
type Options struct {
	Quality         int    // JPEG quality (1-100), 0 means jpeg.DefaultQuality
	Subsample       bool   // 4:2:0 chroma subsampling
	Progressive     bool   // progressive JPEG output
	Workers         int    // rows processed concurrently, <= 1 is serial
	KeepICC         bool   // carry an RGB input profile into the output
	ProfileOverride []byte // optional: RGB ICC profile to embed instead
}

// Result holds the output of a pipeline run.
type Result struct {
	Data   []byte // encoded JPEG
	Width  int
	Height int
}

// Run applies m to every pixel of img in place and encodes the result as
// JPEG. The image's ICC profile is replaced by the one that is embedded.
//
// Decoding is left to the caller so that a bad input is reported before the
// matrix is read.
func Run(img *ir.RGBImage, m *matrix.Matrix, opts Options) (*Result, error) {
	if err := img.Validate(); err != nil {
		return nil, errors.Wrap(err, "input")
	}
	logger().Debug("input image",
		"width", img.Width, "height", img.Height,
		"icc_bytes", len(img.ICC), "alpha", img.Alpha != nil)
	logger().Debug("applying matrix", "matrix", m.String())

	start := time.Now()
	transform.New(m, transform.WithWorkers(opts.Workers)).Apply(img)
	logger().Debug("transformed pixels",
		"pixels", img.Width*img.Height, "workers", opts.Workers, "elapsed", time.Since(start))

	img.ICC = outputProfile(img.ICC, opts)

	encoded, err := jpeg.EncodeRGB(img, jpeg.EncoderOptions{
		Quality:     opts.Quality,
		Subsample:   opts.Subsample,
		Progressive: opts.Progressive,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode")
	}
	logger().Debug("encoded output", "bytes", len(encoded), "icc_bytes", len(img.ICC))

	return &Result{
		Data:   encoded,
		Width:  img.Width,
		Height: img.Height,
	}, nil
}

// outputProfile picks the ICC profile to embed. An override wins; otherwise
// the input profile is kept only if asked to and if it still describes the
// RGB pixels we write.
func outputProfile(input []byte, opts Options) []byte {
	if opts.ProfileOverride != nil {
		return opts.ProfileOverride
	}
	if !opts.KeepICC {
		return nil
	}
	if input != nil && color.EmbeddableRGB(input) == nil {
		logger().Debug("dropping non-RGB input profile", "icc_bytes", len(input))
		return nil
	}
	return input
}
