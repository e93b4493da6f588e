package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// userError is a failure reported to the user verbatim on stdout.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *userError) Unwrap() error { return e.err }

const (
	msgNoInput      = "Please specify an input file."
	msgInputMissing = "Input file does not exist."
)

func newRootCmd(stdin io.Reader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "colourmatrix INPUT",
		Short: "Apply a 3x3 colour matrix to every pixel of an image",
		Long: `Reads an image, multiplies the (R,G,B) vector of every pixel by a 3x3
matrix and writes the result as JPEG.

The nine matrix coefficients are read from standard input in row-major
order. Output channel i is the dot product of the pixel with column i of
the matrix, truncated, made non-negative and reduced modulo 255.

To transform a file literally named identify, pass it as ./identify so it
is not taken for the identify subcommand.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, args, stdin)
		},
	}
	addTransformFlags(cmd)
	cmd.AddCommand(newIdentifyCmd())
	return cmd
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		var ue *userError
		if errors.As(err, &ue) {
			fmt.Fprintln(stdout, ue.msg)
			if ue.err != nil {
				fmt.Fprintln(stderr, ue.err)
			}
		} else {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
