package sweep

import (
	"io/fs"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
)

// longPath adds the \\?\ prefix for paths exceeding MAX_PATH.
func longPath(path string) string {
	if len(path) >= 260 && !strings.HasPrefix(path, `\\?\`) {
		return `\\?\` + filepath.Clean(path)
	}
	return path
}

func fillPlatform(_ string, info fs.FileInfo, e *Entry) {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return
	}
	e.CreationTime = time.Unix(0, data.CreationTime.Nanoseconds()).UTC()
	e.AccessTime = time.Unix(0, data.LastAccessTime.Nanoseconds()).UTC()

	attrs := data.FileAttributes
	if attrs&windows.FILE_ATTRIBUTE_READONLY != 0 {
		e.Attrs |= AttrReadOnly
	}
	if attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0 {
		e.Attrs |= AttrHidden
	}
	if attrs&windows.FILE_ATTRIBUTE_SYSTEM != 0 {
		e.Attrs |= AttrSystem
	}
	if attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0 {
		e.Attrs |= AttrReparsePoint
	}
}

func clearProtection(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	if err := windows.SetFileAttributes(p, windows.FILE_ATTRIBUTE_NORMAL); err != nil {
		return &fs.PathError{Op: "setattr", Path: path, Err: err}
	}
	return nil
}
