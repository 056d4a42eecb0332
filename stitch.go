package empatches

import "fmt"

// Reconstruct stitches per-patch results back into a freshly allocated
// full-size buffer. next is called once per offset and must yield
// results in the exact order of offsets; it returns (nil, nil) when the
// sequence is exhausted. A sequence shorter than the offset list, a
// result whose spatial extent disagrees with its window, or a result
// whose channel count differs from dims.Depth fails with
// ErrShapeMismatch. Checks are per-item, so the buffer may be partially
// written before a failure; callers discard it on error.
//
// Overlapping regions are overwritten by the later result in iteration
// order. Overlap exists to pad the model's receptive field at window
// edges, not to blend outputs.
func Reconstruct(dims Dimensions, offsets []Offset, next func() (*Image, error)) (*Image, error) {
	if !dims.valid() {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %dx%dx%d",
			ErrInvalidArgument, dims.Height, dims.Width, dims.Depth)
	}
	out := NewImage(dims.Width, dims.Height, dims.Depth)
	for i, off := range offsets {
		res, err := next()
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		if res == nil {
			return nil, fmt.Errorf("%w: result sequence ended after %d of %d patches",
				ErrShapeMismatch, i, len(offsets))
		}
		if res.Width != off.Width() || res.Height != off.Height() {
			return nil, fmt.Errorf("%w: patch %d result is %dx%d, window is %dx%d",
				ErrShapeMismatch, i, res.Width, res.Height, off.Width(), off.Height())
		}
		if res.Channels != dims.Depth {
			return nil, fmt.Errorf("%w: patch %d result has %d channels, output has %d",
				ErrShapeMismatch, i, res.Channels, dims.Depth)
		}
		out.setRegion(off, res)
	}
	return out, nil
}

// ReconstructAll stitches an already materialized result slice. The
// slice length must match the offset list exactly.
func ReconstructAll(dims Dimensions, offsets []Offset, results []*Image) (*Image, error) {
	if len(results) != len(offsets) {
		return nil, fmt.Errorf("%w: %d results for %d offsets", ErrShapeMismatch, len(results), len(offsets))
	}
	i := 0
	return Reconstruct(dims, offsets, func() (*Image, error) {
		res := results[i]
		i++
		return res, nil
	})
}

// AdaptChannels matches a result's channel count to the output buffer
// before stitching. A single-channel result is replicated across all
// output channels; any other mismatch fails with ErrShapeMismatch.
// Results that already match are returned unchanged.
func AdaptChannels(img *Image, channels int) (*Image, error) {
	if !img.wellFormed() || channels < 1 {
		return nil, fmt.Errorf("%w: malformed raster", ErrInvalidArgument)
	}
	if img.Channels == channels {
		return img, nil
	}
	if img.Channels != 1 {
		return nil, fmt.Errorf("%w: cannot adapt %d channels to %d", ErrShapeMismatch, img.Channels, channels)
	}
	out := NewImage(img.Width, img.Height, channels)
	for p, v := range img.Pix {
		base := p * channels
		for c := 0; c < channels; c++ {
			out.Pix[base+c] = v
		}
	}
	return out, nil
}
