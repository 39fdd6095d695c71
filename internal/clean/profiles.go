package clean

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lakshaymaurya-felt/winsweep/internal/config"
)

// ─── Profile Discovery ───────────────────────────────────────────────────────

// listProfileDirs lists the folders under usersDir. "Public" and "Default"
// are included on purpose: their temp folders fill up too.
func listProfileDirs(usersDir string) ([]string, error) {
	entries, err := os.ReadDir(usersDir)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && e.Type()&os.ModeSymlink == 0 {
			dirs = append(dirs, filepath.Join(usersDir, e.Name()))
		}
	}
	return dirs, nil
}

// ProfileRoots returns every profile to clean: the LocalSystem profiles
// followed by the user profiles, without duplicates.
func ProfileRoots() ([]string, error) {
	users, err := userProfiles()
	if err != nil {
		return config.SystemProfiles(), err
	}
	sort.Strings(users)

	seen := make(map[string]bool)
	var roots []string
	for _, p := range append(config.SystemProfiles(), users...) {
		key := strings.ToLower(filepath.Clean(p))
		if seen[key] {
			continue
		}
		seen[key] = true
		roots = append(roots, p)
	}
	return roots, nil
}
