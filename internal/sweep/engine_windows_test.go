package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

func setAttrs(t *testing.T, path string, attrs uint32) {
	t.Helper()
	p, err := windows.UTF16PtrFromString(path)
	require.NoError(t, err)
	require.NoError(t, windows.SetFileAttributes(p, attrs))
}

func TestSweep_ClearsWindowsAttributes(t *testing.T) {
	f := newFixture(t)
	setAttrs(t, f.path("A/temp1_sys.txt"), windows.FILE_ATTRIBUTE_SYSTEM)
	setAttrs(t, f.path("A/temp1_hid.txt"), windows.FILE_ATTRIBUTE_HIDDEN)
	setAttrs(t, f.path("A/temp1_sys_hid.txt"), windows.FILE_ATTRIBUTE_SYSTEM|windows.FILE_ATTRIBUTE_HIDDEN)
	setAttrs(t, f.path("C"), windows.FILE_ATTRIBUTE_DIRECTORY|windows.FILE_ATTRIBUTE_READONLY)
	setAttrs(t, f.path("D"), windows.FILE_ATTRIBUTE_DIRECTORY|windows.FILE_ATTRIBUTE_SYSTEM|windows.FILE_ATTRIBUTE_HIDDEN)

	entry, err := OS{}.Stat(f.path("A/temp1_sys_hid.txt"))
	require.NoError(t, err)
	assert.True(t, entry.Attrs.Has(AttrSystem))
	assert.True(t, entry.Attrs.Has(AttrHidden))
	assert.True(t, entry.Attrs.Protected())

	e, sink := newTestEngine(t, time.Now(), ModeConfirm)
	require.NoError(t, e.Sweep(context.Background(), f.root, Context{}))

	assert.Empty(t, sink.errors)
	assert.Equal(t, []string{"desktop.ini"}, f.entries(t))
}

func TestSweep_LockedFileReportedOnce(t *testing.T) {
	f := newFixture(t)
	locked := f.path("A/temp1.txt")
	p, err := windows.UTF16PtrFromString(locked)
	require.NoError(t, err)
	h, err := windows.CreateFile(p, windows.GENERIC_READ, 0, nil, windows.OPEN_EXISTING, windows.FILE_ATTRIBUTE_NORMAL, 0)
	require.NoError(t, err)

	e, sink := newTestEngine(t, time.Now(), ModeConfirm)
	require.NoError(t, e.Sweep(context.Background(), f.root, Context{}))
	require.NoError(t, windows.CloseHandle(h))

	assert.Equal(t, 1, sink.errorsMentioning(locked))
	assert.Equal(t, []string{"A", "A/temp1.txt", "desktop.ini"}, f.entries(t))
}
