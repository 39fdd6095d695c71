package config

import (
	"os"
	"path/filepath"
)

// winDir returns the Windows directory (e.g., C:\Windows).
// Falls back to C:\Windows only if %WINDIR% is not set.
func winDir() string {
	if w := os.Getenv("WINDIR"); w != "" {
		return w
	}
	return `C:\Windows`
}

// systemDrive returns the system drive with backslash (e.g., C:\).
// Falls back to C:\ only if %SYSTEMDRIVE% is not set.
func systemDrive() string {
	if d := os.Getenv("SYSTEMDRIVE"); d != "" {
		return DriveRoot(d)
	}
	return `C:\`
}

// DriveRoot turns "C:" or "C:\" into "C:\". Other roots (e.g. "/") are
// returned as they are.
func DriveRoot(d string) string {
	if len(d) == 2 && d[1] == ':' {
		return d + `\`
	}
	return d
}

// UsersDir is the folder holding every interactive profile.
func UsersDir() string {
	return filepath.Join(systemDrive(), "Users")
}

// SystemProfiles returns the profile folders of the LocalSystem account,
// for the native and the 32-bit subsystem.
func SystemProfiles() []string {
	w := winDir()
	return []string{
		filepath.Join(w, "System32", "config", "systemprofile"),
		filepath.Join(w, "SysWOW64", "config", "systemprofile"),
	}
}

// ASPNETTempDirs returns every "Temporary ASP.NET Files" folder of the
// installed .NET Framework versions, 32-bit ones first.
func ASPNETTempDirs() []string {
	msNet := filepath.Join(winDir(), "Microsoft.NET")

	var dirs []string
	for _, fw := range []string{"Framework", "Framework64"} {
		matches, err := filepath.Glob(filepath.Join(msNet, fw, "v*", "Temporary ASP.NET Files"))
		if err != nil {
			continue
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				dirs = append(dirs, m)
			}
		}
	}
	return dirs
}
