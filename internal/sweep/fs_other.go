//go:build !windows && !linux

package sweep

import "io/fs"

func fillPlatform(_ string, info fs.FileInfo, e *Entry) {
	e.Attrs |= unixAttrs(info)
}
