package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/deepdive/internal/shared"
)

// ReadKind distinguishes what was opened.
type ReadKind string

const (
	ReadArticle ReadKind = "article"
	ReadNews    ReadKind = "news"
	ReadRadio   ReadKind = "radio"
)

// ReadEntry records that an item was opened.
type ReadEntry struct {
	EntryID   string
	Sequence  int
	ArticleID string
	Kind      ReadKind
	Title     string
	OpenedAt  time.Time
	Created   time.Time
	Updated   time.Time
}

// NewReadEntry creates a [ReadEntry] opened now.
func NewReadEntry(articleID string, kind ReadKind, title string) *ReadEntry {
	now := time.Now()
	return &ReadEntry{
		EntryID:   shared.GenerateID(),
		ArticleID: articleID,
		Kind:      kind,
		Title:     title,
		OpenedAt:  now,
		Created:   now,
		Updated:   now,
	}
}

func (e *ReadEntry) ID() string           { return e.EntryID }
func (e *ReadEntry) CreatedAt() time.Time { return e.Created }
func (e *ReadEntry) UpdatedAt() time.Time { return e.Updated }

func (e *ReadEntry) Validate() error {
	if e.EntryID == "" {
		return fmt.Errorf("%w: entry id is required", shared.ErrInvalidInput)
	}
	if e.ArticleID == "" {
		return fmt.Errorf("%w: article id is required", shared.ErrInvalidInput)
	}
	switch e.Kind {
	case ReadArticle, ReadNews, ReadRadio:
	default:
		return fmt.Errorf("%w: unknown kind %q", shared.ErrInvalidInput, e.Kind)
	}
	return nil
}
