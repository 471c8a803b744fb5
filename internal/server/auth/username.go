package auth

import (
	"slices"
	"strings"
	"unicode/utf8"
)

const MinPasswordLength = 8

// UsernamePolicy limits who may sign up or log in: a username must be longer
// than three characters and either be listed in Allowed or start with Prefix.
type UsernamePolicy struct {
	Allowed []string
	Prefix  string
}

var DefaultUsernamePolicy = UsernamePolicy{
	Allowed: []string{"dontworry", "ackworth"},
	Prefix:  "test",
}

func (p UsernamePolicy) Valid(username string) bool {
	if utf8.RuneCountInString(username) <= 3 {
		return false
	}
	if slices.Contains(p.Allowed, username) {
		return true
	}
	return p.Prefix != "" && strings.HasPrefix(username, p.Prefix)
}

func ValidateUsername(username string) bool {
	return DefaultUsernamePolicy.Valid(username)
}
