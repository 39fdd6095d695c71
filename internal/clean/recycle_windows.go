package clean

import (
	"fmt"
	"syscall"
	"unsafe"
)

var (
	modShell32          = syscall.NewLazyDLL("shell32.dll")
	procQueryRecycleBin = modShell32.NewProc("SHQueryRecycleBinW")
)

// queryInfo is SHQUERYRBINFO. cbSize is followed by padding on 64-bit,
// which Go's field alignment reproduces.
type queryInfo struct {
	cbSize   uint32
	size     int64
	numItems int64
}

// RecycleBinUsage queries the Recycle Bins of all drives at once.
func RecycleBinUsage() (BinUsage, error) {
	info := queryInfo{}
	info.cbSize = uint32(unsafe.Sizeof(info))

	// A NULL root path asks for every drive.
	hr, _, _ := procQueryRecycleBin.Call(0, uintptr(unsafe.Pointer(&info)))
	if hr != 0 {
		return BinUsage{}, fmt.Errorf("query recycle bin: HRESULT 0x%08x", uint32(hr))
	}
	return BinUsage{Size: info.size, Items: info.numItems}, nil
}
