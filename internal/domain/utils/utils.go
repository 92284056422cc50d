package utils

import (
	"fmt"
	"strings"
	"unicode"
)

// SanitizeName lowercases a display name and squeezes anything that is not a
// letter or digit into single dashes, for use in storage object paths.
func SanitizeName(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// DocumentFolder is the storage folder for an applicant's uploads:
// {sanitized-name}_{target-id}. targetID may be empty for club admission and
// board applications.
func DocumentFolder(name, targetID string) string {
	if targetID == "" {
		return SanitizeName(name)
	}
	return fmt.Sprintf("%s_%s", SanitizeName(name), targetID)
}

// FileExt returns the lowercase extension of a filename without the dot,
// "bin" when there is none.
func FileExt(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 || idx == len(filename)-1 {
		return "bin"
	}
	return strings.ToLower(filename[idx+1:])
}
