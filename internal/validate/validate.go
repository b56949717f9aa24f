// ABOUTME: Input validation rules for registration payloads
// ABOUTME: Regex-based checks for names, usernames, emails, passwords, avatar URLs

package validate

import (
	"regexp"
)

var (
	emailRE    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRE = regexp.MustCompile(`^[a-z0-9_]{5,20}$`)
	nameRE     = regexp.MustCompile(`^[a-zA-Z ]{2,50}$`)
	imageURLRE = regexp.MustCompile(`(http(s?):)([/|.|\w|\s|-])*\.(?:jpg|gif|png|jpeg)`)

	upperRE = regexp.MustCompile(`[A-Z]`)
	lowerRE = regexp.MustCompile(`[a-z]`)
	digitRE = regexp.MustCompile(`[0-9]`)
)

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailRE.MatchString(s)
}

// Username allows lowercase letters, digits, and underscores, 5-20 chars.
func Username(s string) bool {
	return usernameRE.MatchString(s)
}

// Name allows letters and spaces, 2-50 chars.
func Name(s string) bool {
	return nameRE.MatchString(s)
}

// Password requires at least 8 characters with an uppercase letter,
// a lowercase letter, and a digit.
func Password(s string) bool {
	if len(s) < 8 {
		return false
	}
	return upperRE.MatchString(s) && lowerRE.MatchString(s) && digitRE.MatchString(s)
}

// ImageURL reports whether s looks like an http(s) image URL.
func ImageURL(s string) bool {
	return imageURLRE.MatchString(s)
}
