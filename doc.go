// Package empatches tiles large 2D images into fixed-size, possibly
// overlapping patches, persists each patch independently, and stitches
// per-patch inference results back into a full-size output at their
// original coordinates.
//
// It exists to run memory-bounded inference (segmentation and similar)
// over images larger than a model's practical input size: patches are
// streamed to temporary storage one at a time and results are consumed
// lazily in offset order, so neither the full patch set nor the full
// result set is ever held in memory at once.
package empatches
