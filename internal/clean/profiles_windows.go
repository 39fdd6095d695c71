package clean

import (
	"strings"

	"github.com/yusufpapurcu/wmi"

	"github.com/lakshaymaurya-felt/winsweep/internal/config"
)

// win32UserProfile is the subset of the WMI class read here.
type win32UserProfile struct {
	LocalPath string
	SID       string
	Special   bool
}

// userProfiles lists %SystemDrive%\Users and adds every non-special profile
// WMI knows of, which finds profiles relocated to other drives.
func userProfiles() ([]string, error) {
	dirs, listErr := listProfileDirs(config.UsersDir())

	var rows []win32UserProfile
	if err := wmi.Query("SELECT LocalPath, SID, Special FROM Win32_UserProfile", &rows); err != nil {
		return dirs, listErr
	}
	for _, r := range rows {
		if r.Special || strings.TrimSpace(r.LocalPath) == "" {
			continue
		}
		dirs = append(dirs, r.LocalPath)
	}
	return dirs, nil
}
