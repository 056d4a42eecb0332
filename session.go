package empatches

import (
	"fmt"
	"os"
	"path/filepath"
)

// Session owns the scoped temporary storage of one tiling session.
// It is created by BeginSession and must be released exactly once; the
// zero value is not usable.
type Session struct {
	dir      string
	released bool
}

// BeginSession allocates a fresh, uniquely named storage directory for
// one tiling session. baseDir may be empty to use the process-default
// temporary location. Concurrent sessions never share a directory.
func BeginSession(baseDir string) (*Session, error) {
	dir, err := os.MkdirTemp(baseDir, "empatches-")
	if err != nil {
		return nil, fmt.Errorf("%w: create session dir: %v", ErrStorageUnavailable, err)
	}
	return &Session{dir: dir}, nil
}

// Dir returns the session's storage directory.
func (s *Session) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

// PatchPath returns the address of the patch with the given sequential
// index within the session. Indices are zero-padded so lexicographic
// and numeric ordering agree.
func (s *Session) PatchPath(i int) string {
	return patchPath(s.dir, i)
}

// Release irreversibly deletes all persisted patches and the storage
// directory. It is idempotent and safe to call on a nil session or
// after a failed BeginSession.
func (s *Session) Release() error {
	if s == nil || s.released || s.dir == "" {
		return nil
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("%w: remove session dir: %v", ErrStorageUnavailable, err)
	}
	s.released = true
	return nil
}

func (s *Session) active() error {
	if s == nil || s.dir == "" {
		return fmt.Errorf("%w: session was never begun", ErrInvalidArgument)
	}
	if s.released {
		return fmt.Errorf("%w: session already released", ErrInvalidArgument)
	}
	return nil
}

func patchPath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("patch_%06d.png", i))
}
