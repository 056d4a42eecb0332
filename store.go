package empatches

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const manifestName = "manifest.json"

type manifest struct {
	Dimensions Dimensions `json:"dimensions"`
	Offsets    []Offset   `json:"offsets"`
}

// PatchSet addresses the persisted patches of one extraction. Each patch
// is identified by its zero-based sequential index, matching its
// position in the offset list.
type PatchSet struct {
	dir     string
	dims    Dimensions
	offsets []Offset
}

// ExtractPatches slices the region of every offset from img, in order,
// and persists each as an independent PNG inside the session, together
// with a manifest recording the original dimensions and offsets. The
// manifest makes the set re-openable without relying on directory
// listing order.
func ExtractPatches(img *Image, offsets []Offset, s *Session) (*PatchSet, error) {
	if err := s.active(); err != nil {
		return nil, err
	}
	if !img.wellFormed() {
		return nil, fmt.Errorf("%w: malformed input raster", ErrInvalidArgument)
	}
	dims := img.Dims()
	for i, off := range offsets {
		if !off.within(dims) {
			return nil, fmt.Errorf("%w: offset %d out of bounds", ErrInvalidArgument, i)
		}
		if err := writePatch(s.PatchPath(i), img.Region(off)); err != nil {
			return nil, fmt.Errorf("persist patch %d: %w", i, err)
		}
	}
	m := manifest{Dimensions: dims, Offsets: offsets}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, manifestName), data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: write manifest: %v", ErrStorageUnavailable, err)
	}
	return &PatchSet{dir: s.dir, dims: dims, offsets: offsets}, nil
}

// OpenPatchSet loads a previously extracted patch set from its manifest.
func OpenPatchSet(dir string) (*PatchSet, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest: %v", ErrStorageUnavailable, err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if !m.Dimensions.valid() {
		return nil, fmt.Errorf("%w: manifest dimensions", ErrInvalidArgument)
	}
	for i, off := range m.Offsets {
		if !off.within(m.Dimensions) {
			return nil, fmt.Errorf("%w: manifest offset %d out of bounds", ErrInvalidArgument, i)
		}
	}
	return &PatchSet{dir: dir, dims: m.Dimensions, offsets: m.Offsets}, nil
}

// Len returns the number of patches in the set.
func (ps *PatchSet) Len() int { return len(ps.offsets) }

// Dims returns the dimensions of the original input.
func (ps *PatchSet) Dims() Dimensions { return ps.dims }

// Offsets returns the window placements of the set, in extraction order.
func (ps *PatchSet) Offsets() []Offset { return ps.offsets }

// Patch reads back the patch with the given sequential index.
func (ps *PatchSet) Patch(i int) (*Image, error) {
	if i < 0 || i >= len(ps.offsets) {
		return nil, fmt.Errorf("%w: patch index %d out of range [0,%d)", ErrInvalidArgument, i, len(ps.offsets))
	}
	patch, err := readPatch(patchPath(ps.dir, i), ps.dims.Depth)
	if err != nil {
		return nil, fmt.Errorf("read patch %d: %w", i, err)
	}
	return patch, nil
}
