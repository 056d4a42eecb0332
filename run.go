package empatches

import "fmt"

// Model is the inference capability invoked once per persisted patch,
// in index order. The core never depends on a concrete implementation.
type Model interface {
	Infer(patch *Image) (*Image, error)
}

// ModelFunc adapts a plain function to the Model interface.
type ModelFunc func(*Image) (*Image, error)

// Infer calls f.
func (f ModelFunc) Infer(patch *Image) (*Image, error) { return f(patch) }

// RunOptions configures one end-to-end tiling session.
type RunOptions struct {
	// PatchSize is the maximum window extent along each axis.
	PatchSize int
	// Policy spaces consecutive windows; the zero value slides by 1.
	Policy TilingPolicy
	// BaseDir optionally parents the session's temporary storage.
	BaseDir string
}

// Run executes the full pipeline over img: compute offsets, persist
// every patch to a fresh session, feed each patch through model in
// index order, adapt result channels to the input's channel count, and
// stitch results back at their original coordinates. The session's
// temporary storage is released on every exit path.
func Run(img *Image, model Model, opts RunOptions) (*Image, error) {
	if !img.wellFormed() {
		return nil, fmt.Errorf("%w: malformed input raster", ErrInvalidArgument)
	}
	dims := img.Dims()
	offsets, err := ComputeOffsets(dims, opts.PatchSize, opts.Policy)
	if err != nil {
		return nil, err
	}
	session, err := BeginSession(opts.BaseDir)
	if err != nil {
		return nil, err
	}
	defer session.Release()

	patches, err := ExtractPatches(img, offsets, session)
	if err != nil {
		return nil, err
	}
	i := 0
	return Reconstruct(dims, offsets, func() (*Image, error) {
		patch, err := patches.Patch(i)
		if err != nil {
			return nil, err
		}
		i++
		result, err := model.Infer(patch)
		if err != nil {
			return nil, fmt.Errorf("infer: %w", err)
		}
		return AdaptChannels(result, dims.Depth)
	})
}
