package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/davesmith10/colourmatrix/internal/color"
	"github.com/davesmith10/colourmatrix/internal/imageio"
	"github.com/davesmith10/colourmatrix/internal/jpeg"
	"github.com/davesmith10/colourmatrix/internal/matrix"
	"github.com/davesmith10/colourmatrix/internal/pipeline"
)

const defaultOutput = "out.jpg"

func addTransformFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", defaultOutput, "Output JPEG file (overwritten)")
	cmd.Flags().StringP("matrix-file", "m", "", "Read the matrix from this file instead of stdin")
	cmd.Flags().Int("quality", jpeg.DefaultQuality, "JPEG quality (1-100)")
	cmd.Flags().Bool("subsample", true, "Use 4:2:0 chroma subsampling")
	cmd.Flags().Bool("progressive", false, "Write a progressive JPEG")
	cmd.Flags().Int("workers", 1, "Rows transformed concurrently")
	cmd.Flags().Bool("keep-icc", true, "Embed the input's RGB ICC profile in the output")
	cmd.Flags().String("profile", "", "RGB ICC profile to embed instead of the input's")
	cmd.Flags().BoolP("verbose", "v", false, "Log progress to stderr")
}

func runTransform(cmd *cobra.Command, args []string, stdin io.Reader) error {
	if len(args) == 0 {
		return &userError{msg: msgNoInput}
	}
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	matrixPath, _ := cmd.Flags().GetString("matrix-file")
	quality, _ := cmd.Flags().GetInt("quality")
	subsample, _ := cmd.Flags().GetBool("subsample")
	progressive, _ := cmd.Flags().GetBool("progressive")
	workers, _ := cmd.Flags().GetInt("workers")
	keepICC, _ := cmd.Flags().GetBool("keep-icc")
	profilePath, _ := cmd.Flags().GetString("profile")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if quality < 1 || quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", quality)
	}
	if verbose {
		pipeline.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer pipeline.SetLogger(nil)
	}

	img, format, err := imageio.ReadFile(inputPath)
	if err != nil {
		return &userError{msg: msgInputMissing, err: err}
	}

	var profile []byte
	if profilePath != "" {
		profile, err = color.LoadProfile(profilePath)
		if err != nil {
			return err
		}
	}

	m, err := loadMatrix(cmd, matrixPath, stdin)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Quality:         quality,
		Subsample:       subsample,
		Progressive:     progressive,
		Workers:         workers,
		KeepICC:         keepICC,
		ProfileOverride: profile,
	}
	result, err := pipeline.Run(img, m, opts)
	if err != nil {
		return fmt.Errorf("conversion: %w", err)
	}

	if err := os.WriteFile(outputPath, result.Data, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Transformed %dx%d %s → %s (%d bytes)\n", result.Width, result.Height, format, outputPath, len(result.Data))
	}
	return nil
}

// loadMatrix reads the matrix from path, or from stdin when path is empty.
// A prompt goes to stderr only when stdin is an interactive terminal.
func loadMatrix(cmd *cobra.Command, path string, stdin io.Reader) (*matrix.Matrix, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening matrix file: %w", err)
		}
		defer f.Close()
		return matrix.Parse(f)
	}

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Enter the 3x3 matrix, row by row:")
	}
	return matrix.Parse(stdin)
}
