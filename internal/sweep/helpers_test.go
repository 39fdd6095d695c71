package sweep

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) NowUTC() time.Time { return c.now }

type recordingSink struct {
	messages []string
	errors   []string
}

func (s *recordingSink) Message(text string) { s.messages = append(s.messages, text) }
func (s *recordingSink) Error(text string)   { s.errors = append(s.errors, text) }

func (s *recordingSink) errorsMentioning(path string) int {
	n := 0
	for _, e := range s.errors {
		if strings.HasPrefix(e, path+": ") {
			n++
		}
	}
	return n
}

// faultyFS wraps the host filesystem and fails chosen operations.
type faultyFS struct {
	OS
	failList   map[string]bool
	failRemove map[string]bool
	calls      int
}

var errInjected = errors.New("injected failure")

func (f *faultyFS) Stat(path string) (Entry, error) {
	f.calls++
	return f.OS.Stat(path)
}

func (f *faultyFS) StatRoot(path string) (Entry, error) {
	f.calls++
	return f.OS.StatRoot(path)
}

func (f *faultyFS) ReadDir(path string) ([]Entry, error) {
	f.calls++
	if f.failList[path] {
		return nil, &fs.PathError{Op: "open", Path: path, Err: errInjected}
	}
	return f.OS.ReadDir(path)
}

func (f *faultyFS) ClearProtection(path string) error {
	f.calls++
	return f.OS.ClearProtection(path)
}

func (f *faultyFS) Remove(path string) error {
	f.calls++
	if f.failRemove[path] {
		return &fs.PathError{Op: "remove", Path: path, Err: errInjected}
	}
	return f.OS.Remove(path)
}

// fixture mirrors a typical temp folder: a root marker, a nested marker,
// read-only files and several subfolders.
type fixture struct {
	root string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{root: root}

	f.write(t, "desktop.ini", "1")
	f.write(t, "A/temp1.txt", "1")
	f.write(t, "A/desktop.ini", "1")
	f.write(t, "A/temp1_sys.txt", "1")
	f.write(t, "A/temp1_hid.txt", "1")
	f.write(t, "A/temp1_ro.txt", "1")
	f.write(t, "A/temp1_sys_hid.txt", "1")
	for _, dir := range []string{"B", "C", "D", "E"} {
		f.write(t, dir+"/temp2.txt", "2")
	}
	require.NoError(t, os.Chmod(f.path("A/temp1_ro.txt"), 0o444))

	require.Len(t, f.entries(t), 16)
	return f
}

func (f fixture) path(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func (f fixture) write(t *testing.T, rel, content string) {
	t.Helper()
	p := f.path(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func (f fixture) touch(t *testing.T, rel string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(f.path(rel), mod, mod))
}

// entries lists every path below root, relative and slash-separated.
func (f fixture) entries(t *testing.T) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == f.root {
			return nil
		}
		rel, err := filepath.Rel(f.root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

type entryState struct {
	mode    fs.FileMode
	size    int64
	modTime time.Time
	content string
}

func (f fixture) state(t *testing.T) map[string]entryState {
	t.Helper()
	out := make(map[string]entryState)
	for _, rel := range f.entries(t) {
		info, err := os.Lstat(f.path(rel))
		require.NoError(t, err)
		st := entryState{mode: info.Mode(), size: info.Size(), modTime: info.ModTime()}
		if info.Mode().IsRegular() {
			b, err := os.ReadFile(f.path(rel))
			require.NoError(t, err)
			st.content = string(b)
		}
		out[rel] = st
	}
	return out
}

func newTestEngine(t *testing.T, now time.Time, mode Mode, opts ...Option) (*Engine, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	e, err := NewEngine(&fakeClock{now: now}, sink, append([]Option{WithMode(mode)}, opts...)...)
	require.NoError(t, err)
	return e, sink
}
