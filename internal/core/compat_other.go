//go:build !windows

package core

import "runtime"

// PlatformString describes the host for the run header.
func PlatformString() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// SupportsVHDCompaction is false off Windows.
func SupportsVHDCompaction() bool { return false }
