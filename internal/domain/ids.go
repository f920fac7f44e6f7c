package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownSite     = errors.New("unknown site")
)

// NewSiteID returns a fresh site id: creation timestamp plus a random suffix
func NewSiteID() string {
	return fmt.Sprintf("site-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// CategoryIDFromName derives a URL-friendly category id from a display name.
// The name is lowercased, whitespace becomes '-', and everything outside
// [a-z0-9-] is dropped. taken reports ids already in use; collisions get a
// numeric suffix ("-2", "-3", ...).
func CategoryIDFromName(name string, taken func(string) bool) string {
	base := SanitizeID(name)
	if base == "" {
		base = "category"
	}
	if taken == nil || !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !taken(candidate) {
			return candidate
		}
	}
}

// SanitizeID lowercases s and keeps only ASCII letters, digits and dashes
func SanitizeID(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == '-' || r == ' ' || r == '\t' || r == '_':
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
