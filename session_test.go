package empatches

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBeginSessionUnderBaseDir(t *testing.T) {
	base := t.TempDir()
	s, err := BeginSession(base)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()
	if filepath.Dir(s.Dir()) != base {
		t.Fatalf("session dir %s not under %s", s.Dir(), base)
	}
	if _, err := os.Stat(s.Dir()); err != nil {
		t.Fatalf("session dir missing: %v", err)
	}
}

func TestSessionIsolation(t *testing.T) {
	base := t.TempDir()
	a, err := BeginSession(base)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()
	b, err := BeginSession(base)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()
	if a.Dir() == b.Dir() {
		t.Fatal("concurrent sessions share a storage directory")
	}

	img := makeTestImage(8, 8, 1)
	offsets, err := ComputeOffsets(img.Dims(), 4, Stride(4))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ExtractPatches(img, offsets, b); err != nil {
		t.Fatal(err)
	}
	if err := a.Release(); err != nil {
		t.Fatal(err)
	}
	// Releasing one session must not touch the other's patches.
	if _, err := os.Stat(b.PatchPath(0)); err != nil {
		t.Fatalf("sibling session lost its patches: %v", err)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	s, err := BeginSession(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Release(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(s.Dir()); !os.IsNotExist(err) {
		t.Fatalf("session dir still present after release: %v", err)
	}
	if err := s.Release(); err != nil {
		t.Fatalf("second release failed: %v", err)
	}
	var never *Session
	if err := never.Release(); err != nil {
		t.Fatalf("releasing a never-begun session failed: %v", err)
	}
}

func TestUseAfterReleaseIsAnError(t *testing.T) {
	s, err := BeginSession(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Release(); err != nil {
		t.Fatal(err)
	}
	img := makeTestImage(8, 8, 1)
	offsets, err := ComputeOffsets(img.Dims(), 4, Stride(4))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ExtractPatches(img, offsets, s); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
}

func TestBeginSessionStorageUnavailable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")
	_, err := BeginSession(missing)
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("got %v, want ErrStorageUnavailable", err)
	}
}

func TestPatchPathZeroPadded(t *testing.T) {
	s, err := BeginSession(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()
	if !strings.HasSuffix(s.PatchPath(7), "patch_000007.png") {
		t.Fatalf("unexpected patch path %s", s.PatchPath(7))
	}
}
