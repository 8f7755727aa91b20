// Package media resolves stored media references into client-facing URLs.
package media

import "strings"

// AbsoluteURL prefixes origin onto a stored media path. Paths that are
// already absolute (http/https) pass through untouched; empty paths stay
// empty so JSON omits them cleanly.
func AbsoluteURL(origin, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return origin + path
}
