package templ

import (
	"path/filepath"
	"strings"
)

// NormalizeExtension strips surrounding space and a leading dot. An empty
// result selects DefaultExtension.
func NormalizeExtension(ext string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if trimmed == "" {
		return DefaultExtension
	}
	return trimmed
}

// ResolvePath turns a requested template name into the key used for loading
// and caching. Forward slashes become the host separator and ".<ext>" is
// appended unless already present. Nothing else is normalised.
func ResolvePath(raw, ext string) string {
	suffix := "." + NormalizeExtension(ext)

	key := filepath.FromSlash(raw)
	if !strings.HasSuffix(key, suffix) {
		key += suffix
	}
	return key
}
