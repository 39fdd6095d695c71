//go:build !windows

package clean

import "errors"

// RecycleBinUsage is only available on Windows.
func RecycleBinUsage() (BinUsage, error) {
	return BinUsage{}, errors.ErrUnsupported
}
