package empatches

// Dimensions describes the spatial extent and channel count of an input.
type Dimensions struct {
	Height int `json:"height"`
	Width  int `json:"width"`
	Depth  int `json:"depth"`
}

func (d Dimensions) valid() bool {
	return d.Height >= 1 && d.Width >= 1 && d.Depth >= 1
}

// Image stores a tightly packed, channel-interleaved 8-bit raster in
// row-major order. Pix has length Width*Height*Channels.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewImage allocates a zero-initialized raster.
func NewImage(width, height, channels int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Dims returns the raster's extent as Dimensions.
func (m *Image) Dims() Dimensions {
	return Dimensions{Height: m.Height, Width: m.Width, Depth: m.Channels}
}

func (m *Image) wellFormed() bool {
	return m != nil && len(m.Pix) == m.Width*m.Height*m.Channels && m.Dims().valid()
}

// Region returns a copy of the rectangular window identified by off.
// The offset must lie within the raster.
func (m *Image) Region(off Offset) *Image {
	w, h := off.Width(), off.Height()
	out := NewImage(w, h, m.Channels)
	rowLen := w * m.Channels
	for row := 0; row < h; row++ {
		src := ((off.YStart+row)*m.Width + off.XStart) * m.Channels
		copy(out.Pix[row*rowLen:(row+1)*rowLen], m.Pix[src:src+rowLen])
	}
	return out
}

func (m *Image) setRegion(off Offset, src *Image) {
	rowLen := off.Width() * m.Channels
	for row := 0; row < off.Height(); row++ {
		dst := ((off.YStart+row)*m.Width + off.XStart) * m.Channels
		copy(m.Pix[dst:dst+rowLen], src.Pix[row*rowLen:(row+1)*rowLen])
	}
}

// Offset identifies one rectangular window in absolute coordinates of
// the original input.
type Offset struct {
	YStart int `json:"y_start"`
	YEnd   int `json:"y_end"`
	XStart int `json:"x_start"`
	XEnd   int `json:"x_end"`
}

// Width returns the window extent along X.
func (o Offset) Width() int { return o.XEnd - o.XStart }

// Height returns the window extent along Y.
func (o Offset) Height() int { return o.YEnd - o.YStart }

func (o Offset) within(d Dimensions) bool {
	return o.YStart >= 0 && o.XStart >= 0 && o.Width() > 0 && o.Height() > 0 &&
		o.YEnd <= d.Height && o.XEnd <= d.Width
}

type policyMode int

const (
	modeDefault policyMode = iota
	modeOverlap
	modeStride
)

// TilingPolicy selects how consecutive window start positions are
// spaced. The zero value is the default policy: step 1, an exhaustive
// sliding window intended only for small inputs.
type TilingPolicy struct {
	mode    policyMode
	overlap float64
	stride  int
}

// Overlap returns a policy deriving the step from the fraction of a
// window shared with its neighbor. The fraction must be in [0,1);
// a fraction of 0 yields non-overlapping tiling.
func Overlap(fraction float64) TilingPolicy {
	return TilingPolicy{mode: modeOverlap, overlap: fraction}
}

// Stride returns a policy with a fixed distance between consecutive
// window start positions. The step must be at least 1.
func Stride(step int) TilingPolicy {
	return TilingPolicy{mode: modeStride, stride: step}
}
