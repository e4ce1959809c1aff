package domain

import (
	"strings"
	"time"
)

// Poem is a text a poet submitted to a critic. Poems are write-once: they
// are listed and deleted but never updated.
type Poem struct {
	PoetPhoneNumber   string    `json:"poet_phone_number" yaml:"poet"`
	CriticPhoneNumber string    `json:"critic_phone_number" yaml:"critic"`
	Uploaded          time.Time `json:"uploaded" yaml:"-"`
	Text              string    `json:"text" yaml:"text"`
}

// NewPoem creates an unsaved poem; Uploaded is stamped on save
func NewPoem(poetPhone, criticPhone, text string) *Poem {
	return &Poem{
		PoetPhoneNumber:   poetPhone,
		CriticPhoneNumber: criticPhone,
		Text:              text,
	}
}

// UploadedDate returns the upload date as yyyy-MM-dd
func (p *Poem) UploadedDate() string {
	return p.Uploaded.Format(DateLayout)
}

// UploadedTime returns the upload time as HH:mm
func (p *Poem) UploadedTime() string {
	return p.Uploaded.Format(TimeLayout)
}

// Validate checks that a poet, a critic and some text were supplied
func (p *Poem) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(p.PoetPhoneNumber) == "" {
		verr.Add("poet", "choose a poet for the poem")
	}
	if strings.TrimSpace(p.CriticPhoneNumber) == "" {
		verr.Add("critic", "choose a critic for the poem")
	}
	if strings.TrimSpace(p.Text) == "" {
		verr.Add("text", "poem text is required")
	}
	return verr.OrNil()
}

// PoemUniqueness selects which existing poems block a new submission
type PoemUniqueness string

const (
	// UniquePerPoet blocks any second poem by the same poet
	UniquePerPoet PoemUniqueness = "poet"
	// UniquePerPair blocks only a second poem for the same poet and critic
	UniquePerPair PoemUniqueness = "poet_critic"
)

// Valid reports whether u is a known policy
func (u PoemUniqueness) Valid() bool {
	return u == UniquePerPoet || u == UniquePerPair
}
