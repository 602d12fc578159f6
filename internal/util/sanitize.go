package util

import (
	"regexp"
	"strings"
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	unsafeChars  = regexp.MustCompile(`[\\/:*?"<>|]`)
)

// SanitizeName makes a string safe to use as a single file or directory name
// component on Windows, macOS and Linux. The mapping is deterministic: the
// same logical id always produces the same name, which is what lets callers
// use "file already exists" as a skip signal.
func SanitizeName(name string) string {
	safe := controlChars.ReplaceAllString(name, "")
	safe = unsafeChars.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, " .")
	if safe == "" {
		safe = "untitled"
	}
	return safe
}

// TruncateLabel shortens a title for display in menus and status output.
func TruncateLabel(s string, max int) string {
	if max < 3 {
		max = 3
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
