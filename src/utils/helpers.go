package utils

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

// AdminPath joins a path onto the configured admin prefix
func AdminPath(path string) string {
	return strings.TrimRight(Config.Admin.Prefix, "/") + path
}

// Use the stored slug or derive one from the goal name
// for rows created before slugs were enforced
func GoalSlug(stored string, name string) string {
	if stored != "" {
		return stored
	}
	return slug.Make(name)
}

// SafeRedirect only allows local absolute paths, anything else falls back.
// Browsers drop tabs and newlines from URLs, so "/\t/host" would turn into
// "//host" on their side; control characters are rejected outright.
func SafeRedirect(next string, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	if strings.ContainsFunc(next, unicode.IsControl) {
		return fallback
	}

	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
