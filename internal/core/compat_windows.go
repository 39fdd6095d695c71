package core

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// GetWindowsVersion returns the major, minor, and build numbers of the running Windows.
func GetWindowsVersion() (major, minor, build uint32) {
	major, minor, build = windows.RtlGetNtVersionNumbers()
	// High bits flag checked/free builds.
	build &= 0xFFFF
	return major, minor, build
}

// PlatformString describes the host for the run header,
// e.g. "Windows 11 (Build 22631)".
func PlatformString() string {
	major, minor, build := GetWindowsVersion()

	var name string
	switch {
	case major == 10 && build >= 22000:
		name = "Windows 11"
	case major == 10:
		name = "Windows 10"
	case major == 6 && minor == 3:
		name = "Windows 8.1"
	case major == 6 && minor == 2:
		name = "Windows 8"
	case major == 6 && minor == 1:
		name = "Windows 7"
	default:
		name = fmt.Sprintf("Windows %d.%d", major, minor)
	}
	return fmt.Sprintf("%s (Build %d)", name, build)
}

// SupportsVHDCompaction reports whether Optimize-VHD can be expected to
// exist. Hyper-V tooling ships with Windows 10 and later.
func SupportsVHDCompaction() bool {
	major, _, _ := GetWindowsVersion()
	return major >= 10
}
