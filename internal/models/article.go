package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/deepdive/internal/shared"
)

// RawArticle is a deep-dive row as returned by the content API.
//
// List endpoints omit Sections; the article viewer endpoint includes them.
type RawArticle struct {
	RawID        string            `json:"id"`
	ArticleKey   string            `json:"article_key,omitempty"`
	LanguageCode string            `json:"language_code"`
	Title        string            `json:"title"`
	Subtitle     string            `json:"subtitle"`
	Author       string            `json:"author"`
	PublishedAt  string            `json:"published_at"`
	HeroImageURL string            `json:"hero_image_url"`
	AudioFile    *string           `json:"audio_file,omitempty"`
	VideoFile    *string           `json:"video_file,omitempty"`
	Sections     map[string]string `json:"sections,omitempty"`
	RawCreatedAt string            `json:"created_at,omitempty"`
}

// Validate checks that the row can be addressed.
func (a RawArticle) Validate() error {
	if a.RawID == "" {
		return fmt.Errorf("%w: article id is required", shared.ErrInvalidInput)
	}
	return nil
}

// Published parses PublishedAt, returning the zero time when it is absent or malformed.
func (a RawArticle) Published() time.Time {
	t, err := ParseTimestamp(a.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// HasAudio reports whether the article carries narration.
func (a RawArticle) HasAudio() bool {
	return a.AudioFile != nil && *a.AudioFile != ""
}

// Section is one parsed, render-ready unit of an article.
type Section struct {
	ID       string   `json:"id"`
	Headline string   `json:"headline"`
	Content  []string `json:"content"`
	Image    string   `json:"image,omitempty"`
}

// Article is the consumer-facing aggregate derived from a [RawArticle].
type Article struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	Author       string    `json:"author"`
	Date         string    `json:"date"`
	PublishedAt  time.Time `json:"published_at"`
	HeroImage    string    `json:"hero_image"`
	LanguageCode string    `json:"language_code"`
	AudioFile    string    `json:"audio_file,omitempty"`
	VideoFile    string    `json:"video_file,omitempty"`
	Sections     []Section `json:"sections"`
}
