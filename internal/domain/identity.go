package domain

import "strings"

// Identity is the authenticated caller as provided by the session.
type Identity struct {
	Email    string `json:"email"`
	Name     string `json:"fullname"`
	PhotoURL string `json:"photo_url"`
}

// SameEmail reports whether a and b name the same account. Emails compare
// case-insensitively everywhere.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
