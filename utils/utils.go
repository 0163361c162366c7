package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a short collision-resistant identifier for stored documents.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

// Slugify turns a title into a URL-safe slug. Non-alphanumeric runs collapse
// to single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// PathFromRawURL extracts the repository file path from a
// raw.githubusercontent.com URL. Returns "" when the URL does not contain a
// recognizable branch segment.
func PathFromRawURL(url string) string {
	parts := strings.Split(url, "/")
	for i, part := range parts {
		if part == "main" || part == "master" {
			if i+1 < len(parts) {
				return strings.Join(parts[i+1:], "/")
			}
			return ""
		}
	}
	return ""
}
