//go:build !windows

package clean

import "github.com/lakshaymaurya-felt/winsweep/internal/config"

func userProfiles() ([]string, error) {
	return listProfileDirs(config.UsersDir())
}
