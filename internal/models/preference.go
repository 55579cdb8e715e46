package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/deepdive/internal/shared"
)

// Preference keys used by the reader.
const (
	PreferenceLastViewedNews = "last_viewed_breaking_news"
	PreferenceFavoriteTeam   = "favorite_team"
	PreferenceLanguage       = "language"
)

// Preference is a persisted key-value entry.
type Preference struct {
	PreferenceID string
	Key          string
	Value        string
	Created      time.Time
	Updated      time.Time
}

// NewPreference creates a [Preference] with a fresh ID and timestamps.
func NewPreference(key, value string) *Preference {
	now := time.Now()
	return &Preference{
		PreferenceID: shared.GenerateID(),
		Key:          key,
		Value:        value,
		Created:      now,
		Updated:      now,
	}
}

func (p *Preference) ID() string           { return p.PreferenceID }
func (p *Preference) CreatedAt() time.Time { return p.Created }
func (p *Preference) UpdatedAt() time.Time { return p.Updated }

func (p *Preference) Validate() error {
	if p.PreferenceID == "" {
		return fmt.Errorf("%w: preference id is required", shared.ErrInvalidInput)
	}
	if p.Key == "" {
		return fmt.Errorf("%w: preference key is required", shared.ErrInvalidInput)
	}
	return nil
}
