package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "empatch",
		Short: "Tile large images into patches and stitch inference results back",
		Long: `empatch runs memory-bounded inference over images larger than a model's
practical input size. It tiles an image into fixed-size, possibly
overlapping patches, persists them to a temporary session directory,
feeds each patch through a model, and stitches the results back into a
full-size output at their original coordinates.`,
	}

	rootCmd.AddCommand(tileCmd())
	rootCmd.AddCommand(stitchCmd())
	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
