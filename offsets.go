package empatches

import (
	"fmt"
	"math"
)

// ComputeOffsets computes the ordered list of window placements covering
// an input of the given dimensions. The window is patchSize along each
// axis, clamped per axis so it never exceeds the input. Every pixel of
// the input is contained in at least one window, including the trailing
// row and column, and no window reaches out of bounds.
//
// Offsets are emitted with the X position as the outer loop and the Y
// position as the inner loop. The order is stable across calls and is
// the correlation key between a persisted patch and its destination
// region during reconstruction.
//
// Depth is validated but not tiled; it records the channel count only.
func ComputeOffsets(dims Dimensions, patchSize int, policy TilingPolicy) ([]Offset, error) {
	if !dims.valid() {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %dx%dx%d",
			ErrInvalidArgument, dims.Height, dims.Width, dims.Depth)
	}
	if patchSize <= 0 {
		return nil, fmt.Errorf("%w: patch size must be positive, got %d", ErrInvalidArgument, patchSize)
	}

	windowX := min(patchSize, dims.Width)
	windowY := min(patchSize, dims.Height)

	stepX, stepY, err := policy.steps(windowX, windowY)
	if err != nil {
		return nil, err
	}

	xOffsets := axisOffsets(dims.Width, windowX, stepX)
	yOffsets := axisOffsets(dims.Height, windowY, stepY)

	offsets := make([]Offset, 0, len(xOffsets)*len(yOffsets))
	for _, x := range xOffsets {
		for _, y := range yOffsets {
			offsets = append(offsets, Offset{
				YStart: y,
				YEnd:   y + windowY,
				XStart: x,
				XEnd:   x + windowX,
			})
		}
	}
	return offsets, nil
}

func (p TilingPolicy) steps(windowX, windowY int) (stepX, stepY int, err error) {
	switch p.mode {
	case modeStride:
		if p.stride < 1 {
			return 0, 0, fmt.Errorf("%w: stride must be at least 1, got %d", ErrInvalidArgument, p.stride)
		}
		return p.stride, p.stride, nil
	case modeOverlap:
		if p.overlap < 0 || p.overlap >= 1 {
			return 0, 0, fmt.Errorf("%w: overlap fraction must be in [0,1), got %v", ErrInvalidArgument, p.overlap)
		}
		// floor(window*overlap) < window since overlap < 1, so steps stay >= 1.
		stepX = windowX - int(math.Floor(float64(windowX)*p.overlap))
		stepY = windowY - int(math.Floor(float64(windowY)*p.overlap))
		return stepX, stepY, nil
	default:
		return 1, 1, nil
	}
}

// axisOffsets generates window start positions 0, step, 2*step, ... not
// exceeding extent-window, appending the last valid start explicitly
// when the progression misses it. This keeps the trailing edge covered
// even when the step does not evenly divide the span.
func axisOffsets(extent, window, step int) []int {
	last := extent - window
	var offs []int
	for v := 0; v <= last; v += step {
		offs = append(offs, v)
	}
	if len(offs) == 0 || offs[len(offs)-1] != last {
		offs = append(offs, last)
	}
	return offs
}
