package config

import (
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Day is the unit thresholds are configured in.
const Day = 24 * time.Hour

// Category groups targets in logs and reports.
type Category string

const (
	CategoryDrive   Category = "drive"
	CategoryRecycle Category = "recycle"
	CategorySystem  Category = "system"
	CategoryProfile Category = "profile"
)

// Target is one folder whose content is swept. The folder itself is kept.
type Target struct {
	// Name identifies the target in logs.
	Name string

	// Path is the folder to sweep.
	Path string

	// Threshold is the minimum age of deleted entries; zero deletes all.
	Threshold time.Duration

	Category Category
}

// recycleBinDir is the per-drive recycle bin; each child belongs to one SID.
const recycleBinDir = "$Recycle.Bin"

// Plan lists the machine-wide targets for the given drive roots: each
// drive's TEMP folder, each per-user recycle bin, and the ASP.NET
// compilation caches. Profiles are planned separately by the cleaner.
func Plan(drives []string, threshold time.Duration) []Target {
	var targets []Target

	for _, d := range drives {
		root := DriveRoot(d)
		targets = append(targets, Target{
			Name:      "DriveTemp",
			Path:      filepath.Join(root, "TEMP"),
			Threshold: threshold,
			Category:  CategoryDrive,
		})
	}

	for _, d := range drives {
		for _, bin := range recycleBins(DriveRoot(d)) {
			targets = append(targets, Target{
				Name:      "RecycleBin",
				Path:      bin,
				Threshold: threshold,
				Category:  CategoryRecycle,
			})
		}
	}

	for _, dir := range ASPNETTempDirs() {
		targets = append(targets, Target{
			Name:     "ASPNETTemp",
			Path:     dir,
			Category: CategorySystem,
		})
	}
	return targets
}

// recycleBins lists the per-SID folders below root\$Recycle.Bin. A drive
// without a recycle bin yields nothing.
func recycleBins(root string) []string {
	entries, err := os.ReadDir(filepath.Join(root, recycleBinDir))
	if err != nil {
		return nil
	}
	var bins []string
	for _, e := range entries {
		if e.IsDir() {
			bins = append(bins, filepath.Join(root, recycleBinDir, e.Name()))
		}
	}
	sort.Strings(bins)
	return bins
}

// ProfileTarget is a folder inside a user profile swept with its own age.
type ProfileTarget struct {
	Rel       string
	Threshold time.Duration
}

// ProfileTargets are swept in every profile. Browser and shell caches are
// kept a week; Downloads for the configured retention.
func ProfileTargets(retention time.Duration) []ProfileTarget {
	week := 7 * Day
	return []ProfileTarget{
		{Rel: filepath.Join("AppData", "Local", "Temp"), Threshold: week},
		{Rel: filepath.Join("AppData", "Local", "Microsoft", "Windows", "IECompatCache"), Threshold: week},
		{Rel: filepath.Join("AppData", "Local", "Microsoft", "Windows", "IECompatUaCache"), Threshold: week},
		{Rel: filepath.Join("AppData", "Local", "Microsoft", "Windows", "IEDownloadHistory"), Threshold: week},
		{Rel: filepath.Join("AppData", "Local", "Microsoft", "Windows", "INetCache"), Threshold: week},
		{Rel: "Downloads", Threshold: retention},
	}
}

// MonthlyPurgeAge is how old a package cache must be before it is dropped
// as a whole.
const MonthlyPurgeAge = 30 * Day

// MonthlyPurges are package caches removed entirely once they are older
// than MonthlyPurgeAge; tools rebuild them on demand.
func MonthlyPurges() []string {
	return []string{
		filepath.Join("AppData", "Roaming", "npm-cache"),
		filepath.Join("AppData", "Local", "NuGet"),
		filepath.Join(".nuget", "packages"),
	}
}

// DockerVHD is the WSL2 disk image of Docker Desktop, relative to a profile.
func DockerVHD() string {
	return filepath.Join("AppData", "Local", "Docker", "wsl", "data", "ext4.vhdx")
}
