package auth

import "strings"

const DefaultRedirect = "/"

// SafeRedirect returns to when it is a local absolute path and
// defaultRedirect otherwise. Protocol-relative values ("//host") are rejected.
func SafeRedirect(to, defaultRedirect string) string {
	if to == "" || !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") {
		return defaultRedirect
	}
	return to
}
