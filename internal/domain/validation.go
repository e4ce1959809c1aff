package domain

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Rule pairs an input pattern with the requirement shown when input fails it
type Rule struct {
	Pattern     *regexp.Regexp
	Requirement string
}

// Match reports whether s satisfies the rule
func (r Rule) Match(s string) bool {
	return r.Pattern.MatchString(s)
}

var (
	namePattern         = regexp.MustCompile(`^[A-Za-zА-ЯЁа-яё]{3,15}$`)
	phonePattern        = regexp.MustCompile(`^\+?\d{1,3}\s?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}$`)
	databaseNamePattern = regexp.MustCompile(`^[A-Za-z]{3,15}$`)
)

// PersonRules holds the per-field rules for one role's people.
// Poets and critics share patterns and differ only in wording.
type PersonRules struct {
	FirstName   Rule
	LastName    Rule
	PhoneNumber Rule
}

// RulesFor returns the validation rules for the given role
func RulesFor(role Role) PersonRules {
	who := role.Noun()
	return PersonRules{
		FirstName: Rule{
			Pattern:     namePattern,
			Requirement: who + " first name must be 3 to 15 Latin or Cyrillic letters",
		},
		LastName: Rule{
			Pattern:     namePattern,
			Requirement: who + " last name must be 3 to 15 Latin or Cyrillic letters",
		},
		PhoneNumber: Rule{
			Pattern:     phonePattern,
			Requirement: who + " phone number must look like +1 (234) 567-8901",
		},
	}
}

// DatabaseNameRule is the rule for project database names
var DatabaseNameRule = Rule{
	Pattern:     databaseNamePattern,
	Requirement: "database name must be 3 to 15 Latin letters",
}

// ValidName reports whether s is an acceptable first or last name
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}

// ValidPhoneNumber reports whether s is an acceptable phone number
func ValidPhoneNumber(s string) bool {
	return phonePattern.MatchString(s)
}

// Normalize trims surrounding whitespace and converts s to NFC, so that a
// decomposed "Ё" (Е + combining diaeresis) is a single letter for matching
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
