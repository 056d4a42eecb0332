package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kabbas570/empatches"
)

// policyFromFlags maps the mutually exclusive -overlap/-stride flags to
// a tiling policy. Flags left at their sentinel values mean unset.
func policyFromFlags(overlap float64, stride int) (empatches.TilingPolicy, error) {
	switch {
	case overlap >= 0 && stride > 0:
		return empatches.TilingPolicy{}, errors.New("overlap and stride are mutually exclusive")
	case overlap >= 0:
		return empatches.Overlap(overlap), nil
	case stride > 0:
		return empatches.Stride(stride), nil
	default:
		return empatches.TilingPolicy{}, nil
	}
}

func loadInput(path string, maxDim int) (*empatches.Image, error) {
	img, err := empatches.LoadImage(path)
	if err != nil {
		return nil, err
	}
	if maxDim > 0 {
		img, err = empatches.FitWithin(img, maxDim)
		if err != nil {
			return nil, err
		}
	}
	return img, nil
}

func tileCmd() *cobra.Command {
	var (
		in      string
		patch   int
		overlap float64
		stride  int
		baseDir string
		maxDim  int
	)
	cmd := &cobra.Command{
		Use:   "tile",
		Short: "Extract patches from an image into a session directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := policyFromFlags(overlap, stride)
			if err != nil {
				return err
			}
			img, err := loadInput(in, maxDim)
			if err != nil {
				return err
			}
			offsets, err := empatches.ComputeOffsets(img.Dims(), patch, policy)
			if err != nil {
				return err
			}
			session, err := empatches.BeginSession(baseDir)
			if err != nil {
				return err
			}
			if _, err := empatches.ExtractPatches(img, offsets, session); err != nil {
				session.Release()
				return err
			}
			fmt.Printf("%s extracted %d patches (%dx%d input)\n",
				color.New(color.FgGreen).Sprint("✓"), len(offsets), img.Width, img.Height)
			fmt.Printf("  session: %s\n", session.Dir())
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input image (PNG or JPEG)")
	cmd.Flags().IntVar(&patch, "patch", 224, "patch size")
	cmd.Flags().Float64Var(&overlap, "overlap", -1, "overlap fraction in [0,1)")
	cmd.Flags().IntVar(&stride, "stride", 0, "stride between window starts")
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "parent directory for the session")
	cmd.Flags().IntVar(&maxDim, "max-dim", 0, "downscale input so its longer side fits this bound")
	cmd.MarkFlagRequired("in")
	return cmd
}

func stitchCmd() *cobra.Command {
	var (
		dir string
		out string
	)
	cmd := &cobra.Command{
		Use:   "stitch",
		Short: "Reconstruct a full-size image from a session directory",
		Long: `Reconstruct reads a session directory written by tile (or by an external
model that replaced the patches with its per-patch outputs, keeping
names and geometry) and stitches the patches back at their original
coordinates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := empatches.OpenPatchSet(dir)
			if err != nil {
				return err
			}
			dims := ps.Dims()
			i := 0
			result, err := empatches.Reconstruct(dims, ps.Offsets(), func() (*empatches.Image, error) {
				patch, err := ps.Patch(i)
				if err != nil {
					return nil, err
				}
				i++
				return empatches.AdaptChannels(patch, dims.Depth)
			})
			if err != nil {
				return err
			}
			if err := empatches.SaveImage(out, result); err != nil {
				return err
			}
			fmt.Printf("%s stitched %d patches into %s\n",
				color.New(color.FgGreen).Sprint("✓"), ps.Len(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "session directory containing patches and manifest")
	cmd.Flags().StringVar(&out, "out", "", "output image path")
	cmd.MarkFlagRequired("dir")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runCmd() *cobra.Command {
	var (
		in      string
		out     string
		patch   int
		overlap float64
		stride  int
		baseDir string
		maxDim  int
		model   string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Tile, run a built-in model per patch, and stitch the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := policyFromFlags(overlap, stride)
			if err != nil {
				return err
			}
			m, err := modelByName(model)
			if err != nil {
				return err
			}
			img, err := loadInput(in, maxDim)
			if err != nil {
				return err
			}
			result, err := empatches.Run(img, m, empatches.RunOptions{
				PatchSize: patch,
				Policy:    policy,
				BaseDir:   baseDir,
			})
			if err != nil {
				return err
			}
			if err := empatches.SaveImage(out, result); err != nil {
				return err
			}
			fmt.Printf("%s wrote %s (%dx%d)\n",
				color.New(color.FgGreen).Sprint("✓"), out, result.Width, result.Height)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input image (PNG or JPEG)")
	cmd.Flags().StringVar(&out, "out", "", "output image path")
	cmd.Flags().IntVar(&patch, "patch", 224, "patch size")
	cmd.Flags().Float64Var(&overlap, "overlap", -1, "overlap fraction in [0,1)")
	cmd.Flags().IntVar(&stride, "stride", 0, "stride between window starts")
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "parent directory for temporary patch storage")
	cmd.Flags().IntVar(&maxDim, "max-dim", 0, "downscale input so its longer side fits this bound")
	cmd.Flags().StringVar(&model, "model", "gray", "built-in model: gray or identity")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}
