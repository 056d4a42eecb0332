package empatches

import (
	"bytes"
	"os"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func extractTestSet(t *testing.T, img *Image, patch int) (*PatchSet, *Session) {
	t.Helper()
	s, err := BeginSession(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Release() })
	offsets, err := ComputeOffsets(img.Dims(), patch, Stride(patch))
	if err != nil {
		t.Fatal(err)
	}
	ps, err := ExtractPatches(img, offsets, s)
	if err != nil {
		t.Fatal(err)
	}
	return ps, s
}

func TestExtractPatchesRoundTrip(t *testing.T) {
	img := makeTestImage(50, 40, 3)
	ps, _ := extractTestSet(t, img, 16)
	for i, off := range ps.Offsets() {
		got, err := ps.Patch(i)
		if err != nil {
			t.Fatal(err)
		}
		want := img.Region(off)
		if !bytes.Equal(got.Pix, want.Pix) {
			t.Fatalf("patch %d content differs from its source region", i)
		}
	}
}

func TestExtractPatchesSingleChannel(t *testing.T) {
	img := makeTestImage(20, 20, 1)
	ps, _ := extractTestSet(t, img, 8)
	got, err := ps.Patch(0)
	if err != nil {
		t.Fatal(err)
	}
	if got.Channels != 1 {
		t.Fatalf("got %d channels, want 1", got.Channels)
	}
	if !bytes.Equal(got.Pix, img.Region(ps.Offsets()[0]).Pix) {
		t.Fatal("gray patch content differs from its source region")
	}
}

func TestExtractPatchesLexicographicOrderMatchesNumeric(t *testing.T) {
	// 12 patches crosses the single-digit boundary that breaks unpadded
	// names ("patch_10" before "patch_2").
	img := makeTestImage(40, 120, 1)
	ps, s := extractTestSet(t, img, 10)
	if ps.Len() <= 10 {
		t.Fatalf("scenario needs more than 10 patches, got %d", ps.Len())
	}
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		if e.Name() == manifestName {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) != ps.Len() {
		t.Fatalf("got %d patch files, want %d", len(names), ps.Len())
	}
	if !sort.StringsAreSorted(names) {
		t.Fatal("directory listing not sorted")
	}
	for i, name := range names {
		if want := s.PatchPath(i); !strings.HasSuffix(want, name) {
			t.Fatalf("file %d is %s, want suffix of %s", i, name, want)
		}
	}
}

func TestOpenPatchSet(t *testing.T) {
	img := makeTestImage(30, 30, 3)
	ps, s := extractTestSet(t, img, 16)

	reopened, err := OpenPatchSet(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Dims() != ps.Dims() {
		t.Fatalf("dims %+v, want %+v", reopened.Dims(), ps.Dims())
	}
	if !reflect.DeepEqual(reopened.Offsets(), ps.Offsets()) {
		t.Fatal("reopened offsets differ")
	}
	got, err := reopened.Patch(ps.Len() - 1)
	if err != nil {
		t.Fatal(err)
	}
	want := img.Region(ps.Offsets()[ps.Len()-1])
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Fatal("reopened patch content differs")
	}
}

func TestOpenPatchSetMissingManifest(t *testing.T) {
	if _, err := OpenPatchSet(t.TempDir()); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestPatchIndexOutOfRange(t *testing.T) {
	img := makeTestImage(16, 16, 1)
	ps, _ := extractTestSet(t, img, 8)
	if _, err := ps.Patch(ps.Len()); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
	if _, err := ps.Patch(-1); err == nil {
		t.Fatal("expected error for negative index")
	}
}
