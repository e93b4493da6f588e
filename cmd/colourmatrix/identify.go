package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davesmith10/colourmatrix/internal/color"
	"github.com/davesmith10/colourmatrix/internal/imageio"
	"github.com/davesmith10/colourmatrix/internal/jpeg"
)

func newIdentifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identify FILE",
		Short: "Inspect image dimensions, format and ICC profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runIdentify,
	}
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	img, format, err := imageio.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	fmt.Fprintf(out, "File:        %s\n", path)
	fmt.Fprintf(out, "Format:      %s\n", format)
	fmt.Fprintf(out, "Dimensions:  %d x %d\n", img.Width, img.Height)
	fmt.Fprintf(out, "Alpha:       %t\n", img.Alpha != nil)
	fmt.Fprintf(out, "File size:   %d bytes (%.1f MB)\n", len(data), float64(len(data))/(1024*1024))

	if format == imageio.FormatJPEG {
		info, err := jpeg.GetInfo(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		fmt.Fprintf(out, "Components:  %d\n", info.NumComponents)
		fmt.Fprintf(out, "Color space: %s\n", info.ColorSpace)
		fmt.Fprintf(out, "Progressive: %t\n", info.Progressive)
		fmt.Fprintf(out, "Density:     %s\n", info.Density)
	}

	if img.ICC == nil {
		fmt.Fprintln(out, "ICC profile: none")
		return nil
	}
	pi, err := color.ParseProfileInfo(img.ICC)
	if err != nil {
		fmt.Fprintf(out, "ICC profile: present (%d bytes) but invalid: %v\n", len(img.ICC), err)
		return nil
	}
	fmt.Fprintf(out, "ICC profile: %d bytes\n", len(img.ICC))
	fmt.Fprintf(out, "  Version:     %s\n", pi.Version)
	fmt.Fprintf(out, "  Color space: %s\n", color.ColorSpaceName(pi.ColorSpace))
	fmt.Fprintf(out, "  PCS:         %s\n", color.ColorSpaceName(pi.PCS))
	fmt.Fprintf(out, "  Class:       %s\n", color.ProfileClassName(pi.Class))
	return nil
}
