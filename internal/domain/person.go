package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the storage format for calendar dates (yyyy-MM-dd)
const DateLayout = "2006-01-02"

// TimeLayout is the storage format for clock times (HH:mm)
const TimeLayout = "15:04"

// Role tags a person with the table they live in
type Role string

const (
	RolePoet   Role = "poet"
	RoleCritic Role = "critic"
)

// ParseRole converts user input into a Role
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RolePoet:
		return RolePoet, nil
	case RoleCritic:
		return RoleCritic, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Noun returns the capitalized role name used in messages
func (r Role) Noun() string {
	switch r {
	case RolePoet:
		return "Poet"
	case RoleCritic:
		return "Critic"
	}
	return "Person"
}

// Table returns the name of the table holding people with this role
func (r Role) Table() string {
	return string(r) + "s"
}

// Person is a poet or a critic. PhoneNumber is the primary key within the
// role's table and never changes after creation.
type Person struct {
	PhoneNumber string    `json:"phone_number" yaml:"phone"`
	FirstName   string    `json:"first_name" yaml:"first_name"`
	LastName    string    `json:"last_name" yaml:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth" yaml:"date_of_birth"`
	Role        Role      `json:"role" yaml:"-"`
}

// NewPerson creates a person with a normalized date of birth
func NewPerson(role Role, phone, firstName, lastName string, dob time.Time) *Person {
	return &Person{
		PhoneNumber: phone,
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: TruncateDate(dob),
		Role:        role,
	}
}

// Normalize trims and NFC-normalizes the text fields in place
func (p *Person) Normalize() {
	p.PhoneNumber = Normalize(p.PhoneNumber)
	p.FirstName = Normalize(p.FirstName)
	p.LastName = Normalize(p.LastName)
	p.DateOfBirth = TruncateDate(p.DateOfBirth)
}

// Validate checks names and phone number against the role's rules
func (p *Person) Validate() error {
	rules := RulesFor(p.Role)
	verr := &ValidationError{}

	if !rules.FirstName.Match(p.FirstName) {
		verr.Add("first_name", rules.FirstName.Requirement)
	}
	if !rules.LastName.Match(p.LastName) {
		verr.Add("last_name", rules.LastName.Requirement)
	}
	if !rules.PhoneNumber.Match(p.PhoneNumber) {
		verr.Add("phone_number", rules.PhoneNumber.Requirement)
	}
	if p.DateOfBirth.IsZero() {
		verr.Add("date_of_birth", "date of birth is required")
	}

	return verr.OrNil()
}

// FullName returns "First Last"
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ParseDate parses a yyyy-MM-dd date. RFC 3339 timestamps are accepted too,
// since DATE columns may come back from the driver as full timestamps.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: expected yyyy-MM-dd", s)
	}
	return TruncateDate(t), nil
}

// FormatDate renders t as yyyy-MM-dd
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateDate drops the clock part and location, keeping the calendar date
func TruncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
