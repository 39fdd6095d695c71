package sweep

import (
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// fillPlatform reads access and birth time. Filesystems without a birth
// time fall back to the inode change time, which is never earlier and so
// never makes an entry look older than it is.
func fillPlatform(path string, info fs.FileInfo, e *Entry) {
	e.Attrs |= unixAttrs(info)

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		e.AccessTime = time.Unix(st.Atim.Unix()).UTC()
		e.CreationTime = time.Unix(st.Ctim.Unix()).UTC()
	}

	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME, &stx)
	if err == nil && stx.Mask&unix.STATX_BTIME != 0 {
		e.CreationTime = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)).UTC()
	}
}
