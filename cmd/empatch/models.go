package main

import (
	"fmt"

	"github.com/kabbas570/empatches"
)

// Built-in stand-in models. Real segmentation models live behind the
// same capability and are invoked by an external runner per patch.
func modelByName(name string) (empatches.Model, error) {
	switch name {
	case "identity":
		return empatches.ModelFunc(identityModel), nil
	case "gray":
		return empatches.ModelFunc(grayModel), nil
	default:
		return nil, fmt.Errorf("unknown model %q", name)
	}
}

func identityModel(patch *empatches.Image) (*empatches.Image, error) {
	return patch, nil
}

// grayModel collapses an RGB patch to single-channel luma. The pipeline
// replicates the channel back up before stitching, so the output keeps
// the input's channel count.
func grayModel(patch *empatches.Image) (*empatches.Image, error) {
	if patch.Channels < 3 {
		return patch, nil
	}
	out := empatches.NewImage(patch.Width, patch.Height, 1)
	for p := 0; p < patch.Width*patch.Height; p++ {
		r := float64(patch.Pix[p*patch.Channels+0])
		g := float64(patch.Pix[p*patch.Channels+1])
		b := float64(patch.Pix[p*patch.Channels+2])
		out.Pix[p] = uint8(0.299*r + 0.587*g + 0.114*b)
	}
	return out, nil
}
