//go:build !windows

package sweep

import (
	"io/fs"
	"os"
	"strings"
)

func longPath(path string) string {
	return path
}

// unixAttrs maps POSIX permissions onto the portable flags: a missing owner
// write bit reads as ReadOnly, a dot-name as Hidden. There is no System bit.
func unixAttrs(info fs.FileInfo) Attributes {
	var a Attributes
	if info.Mode()&fs.ModeSymlink == 0 && info.Mode().Perm()&0o200 == 0 {
		a |= AttrReadOnly
	}
	if strings.HasPrefix(info.Name(), ".") {
		a |= AttrHidden
	}
	return a
}

func clearProtection(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	// chmod follows links; a link carries no protection of its own.
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil
	}
	return os.Chmod(path, info.Mode().Perm()|0o200)
}
