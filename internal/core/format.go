package core

import "fmt"

// FormatSize renders a byte count with a binary unit, e.g. "1.5 GB".
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < 0 {
		return "-" + FormatSize(-bytes)
	}
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 5; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
