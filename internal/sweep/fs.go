package sweep

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Attributes is the portable subset of protective filesystem flags the
// engine cares about. Platforms without a given bit never report it.
type Attributes uint8

const (
	AttrReadOnly Attributes = 1 << iota
	AttrHidden
	AttrSystem
	AttrReparsePoint
)

// Has reports whether any of the bits in flags are set.
func (a Attributes) Has(flags Attributes) bool {
	return a&flags != 0
}

// Protected reports whether the entry must be unlocked before deletion.
func (a Attributes) Protected() bool {
	return a.Has(AttrReadOnly | AttrSystem)
}

// Entry is a file or directory as read at traversal time.
type Entry struct {
	Path         string
	Name         string
	IsDir        bool
	ModTime      time.Time
	CreationTime time.Time
	AccessTime   time.Time
	Attrs        Attributes
	Size         int64
}

// LogicalSize is the size credited to Statistics when the entry is deleted.
func (e Entry) LogicalSize() int64 {
	if e.IsDir {
		return 0
	}
	return e.Size
}

// FileSystem is everything the engine needs from the host.
type FileSystem interface {
	// Stat describes path without following a final link.
	Stat(path string) (Entry, error)
	// StatRoot describes path after following links, so a sweep root may be
	// a symlink or junction to the real folder.
	StatRoot(path string) (Entry, error)
	// ReadDir lists the immediate children of path with their metadata.
	ReadDir(path string) ([]Entry, error)
	// ClearProtection resets the entry to the platform's unrestricted state.
	ClearProtection(path string) error
	// Remove deletes a file, a link or an empty directory.
	Remove(path string) error
}

// OS is the FileSystem of the running host.
type OS struct{}

var _ FileSystem = OS{}

// Stat implements FileSystem.
func (OS) Stat(path string) (Entry, error) {
	info, err := os.Lstat(longPath(path))
	if err != nil {
		return Entry{}, err
	}
	return entryFromInfo(path, info), nil
}

// StatRoot implements FileSystem.
func (OS) StatRoot(path string) (Entry, error) {
	info, err := os.Stat(longPath(path))
	if err != nil {
		return Entry{}, err
	}
	e := entryFromInfo(path, info)
	e.IsDir = info.IsDir()
	return e, nil
}

// ReadDir implements FileSystem. The directory handle is closed before it
// returns, so nothing is held open while the caller recurses or deletes.
func (OS) ReadDir(path string) ([]Entry, error) {
	dirents, err := os.ReadDir(longPath(path))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		childPath := filepath.Join(path, d.Name())
		info, err := d.Info()
		if err != nil {
			// Removed between listing and stat; nothing left to judge.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", childPath, err)
		}
		entries = append(entries, entryFromInfo(childPath, info))
	}
	return entries, nil
}

// ClearProtection implements FileSystem.
func (OS) ClearProtection(path string) error {
	return clearProtection(longPath(path))
}

// Remove implements FileSystem. It never removes recursively.
func (OS) Remove(path string) error {
	return os.Remove(longPath(path))
}

func entryFromInfo(path string, info fs.FileInfo) Entry {
	mod := info.ModTime().UTC()
	e := Entry{
		Path:         path,
		Name:         info.Name(),
		IsDir:        info.IsDir(),
		ModTime:      mod,
		CreationTime: mod,
		AccessTime:   mod,
	}
	if info.Mode().IsRegular() {
		e.Size = info.Size()
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		e.Attrs |= AttrReparsePoint
	}

	fillPlatform(path, info, &e)

	// Links and junctions are removed as themselves, never descended into.
	if e.Attrs.Has(AttrReparsePoint) {
		e.IsDir = false
	}
	return e
}
