package tasks

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/shared"
	tu "github.com/desertthunder/deepdive/internal/testing"
	"github.com/google/go-cmp/cmp"
)

type recordedRead struct {
	id    string
	kind  models.ReadKind
	title string
}

type fakeHistory struct {
	reads []recordedRead
	err   error
}

func (f *fakeHistory) Record(ctx context.Context, articleID string, kind models.ReadKind, title string) (*models.ReadEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.reads = append(f.reads, recordedRead{articleID, kind, title})
	return models.NewReadEntry(articleID, kind, title), nil
}

func strPtr(s string) *string { return &s }

func TestBuildArticle(t *testing.T) {
	t.Run("parses sections and localizes the date", func(t *testing.T) {
		raw := models.RawArticle{
			RawID:        "a1",
			LanguageCode: "de",
			Title:        "Deep Dive",
			Author:       "Jane",
			PublishedAt:  "2025-03-02T08:00:00Z",
			HeroImageURL: "https://cdn/hero.jpg",
			AudioFile:    strPtr("https://cdn/a1.mp3"),
			Sections: map[string]string{
				"section_1": "## Intro\nWelcome.",
				"section_2": "## Deep Dive\n### Analysis\nThe numbers show...",
			},
		}

		got := BuildArticle(raw)

		if got.Date != "2. März 2025" {
			t.Errorf("expected German date, got %q", got.Date)
		}
		if got.AudioFile != "https://cdn/a1.mp3" || got.VideoFile != "" {
			t.Errorf("unexpected media %q %q", got.AudioFile, got.VideoFile)
		}
		want := []models.Section{
			{ID: "section_1", Headline: "Intro", Content: []string{"Welcome."}},
			{ID: "section_2", Headline: "Deep Dive", Content: []string{"Analysis", "The numbers show..."}},
		}
		if diff := cmp.Diff(want, got.Sections); diff != "" {
			t.Errorf("unexpected sections (-want +got):\n%s", diff)
		}
	})

	t.Run("missing sections yield zero sections", func(t *testing.T) {
		got := BuildArticle(models.RawArticle{RawID: "a1", LanguageCode: "en", PublishedAt: "2025-03-02T08:00:00Z"})

		if got.Sections == nil || len(got.Sections) != 0 {
			t.Errorf("expected empty sections, got %v", got.Sections)
		}
		if got.Date != "March 2, 2025" {
			t.Errorf("expected English date, got %q", got.Date)
		}
	})

	t.Run("malformed date renders empty", func(t *testing.T) {
		got := BuildArticle(models.RawArticle{RawID: "a1", PublishedAt: "soon"})
		if got.Date != "" || !got.PublishedAt.IsZero() {
			t.Errorf("expected empty date, got %q", got.Date)
		}
	})
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC)
	if got := FormatDate(ts, models.German); got != "24. Dezember 2025" {
		t.Errorf("unexpected German date %q", got)
	}
	if got := FormatDate(ts, models.English); got != "December 24, 2025" {
		t.Errorf("unexpected English date %q", got)
	}
	if got := FormatDate(time.Time{}, models.English); got != "" {
		t.Errorf("expected empty string for zero time, got %q", got)
	}
}

func TestReader(t *testing.T) {
	logger := shared.NewLogger(io.Discard)
	ctx := context.Background()

	t.Run("Feed", func(t *testing.T) {
		mock := &tu.MockContentService{DeepDives: []models.RawArticle{{RawID: "a1"}}}
		r := NewReader(mock, nil, nil, logger)

		feed, err := r.Feed(ctx, models.German)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if feed.Fallback || len(feed.Articles) != 1 {
			t.Errorf("unexpected feed %+v", feed)
		}
	})

	t.Run("Feed falls back on upstream failure", func(t *testing.T) {
		mock := &tu.MockContentService{Err: shared.ErrServiceUnavailable}
		r := NewReader(mock, nil, nil, logger)

		feed, err := r.Feed(ctx, models.English)
		if err != nil {
			t.Fatalf("fallback should not be an error, got %v", err)
		}
		if !feed.Fallback || !errors.Is(feed.Err, shared.ErrServiceUnavailable) {
			t.Errorf("expected fallback with upstream error, got %+v", feed)
		}
		if len(feed.Articles) == 0 {
			t.Fatal("expected bundled articles")
		}
		for _, a := range feed.Articles {
			if a.LanguageCode != "en" {
				t.Errorf("fallback article %s has language %s", a.RawID, a.LanguageCode)
			}
		}
	})

	t.Run("Feed reports cancellation", func(t *testing.T) {
		mock := &tu.MockContentService{Err: context.Canceled}
		r := NewReader(mock, nil, nil, logger)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := r.Feed(cctx, models.German); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("FallbackFeed parses every bundled article", func(t *testing.T) {
		all, err := FallbackFeed("")
		if err != nil {
			t.Fatalf("failed to decode bundled feed: %v", err)
		}
		for _, raw := range all {
			if err := raw.Validate(); err != nil {
				t.Errorf("invalid bundled article: %v", err)
			}
			if len(BuildArticle(raw).Sections) == 0 {
				t.Errorf("bundled article %s has no sections", raw.RawID)
			}
		}
	})

	t.Run("Open records history", func(t *testing.T) {
		mock := &tu.MockContentService{Articles: map[string]*models.RawArticle{
			"a1": {RawID: "a1", Title: "Deep Dive", Sections: map[string]string{"section_1": "## Intro\nWelcome."}},
		}}
		history := &fakeHistory{}
		r := NewReader(mock, history, nil, logger)

		article, err := r.Open(ctx, "a1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(article.Sections) != 1 {
			t.Errorf("expected 1 section, got %d", len(article.Sections))
		}
		if diff := cmp.Diff([]recordedRead{{"a1", models.ReadArticle, "Deep Dive"}}, history.reads, cmp.AllowUnexported(recordedRead{})); diff != "" {
			t.Errorf("unexpected history (-want +got):\n%s", diff)
		}
	})

	t.Run("Open survives history failure", func(t *testing.T) {
		mock := &tu.MockContentService{Articles: map[string]*models.RawArticle{"a1": {RawID: "a1"}}}
		r := NewReader(mock, &fakeHistory{err: errors.New("disk full")}, nil, logger)

		if _, err := r.Open(ctx, "a1"); err != nil {
			t.Errorf("history failure should not fail Open, got %v", err)
		}
	})

	t.Run("Open missing article", func(t *testing.T) {
		r := NewReader(&tu.MockContentService{}, nil, nil, logger)
		if _, err := r.Open(ctx, "nope"); !errors.Is(err, shared.ErrArticleNotFound) {
			t.Errorf("expected ErrArticleNotFound, got %v", err)
		}
	})

	t.Run("Home", func(t *testing.T) {
		mock := &tu.MockContentService{
			DeepDives: []models.RawArticle{{RawID: "a1"}},
			BreakingNews: []models.BreakingNews{
				{ID: "n1", CreatedAt: models.Timestamp{Time: time.Now()}},
			},
		}
		r := NewReader(mock, nil, NewNewsTracker(tu.NewMemoryStore()), logger)

		view, err := r.Home(ctx, models.German)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(view.Feed.Articles) != 1 || len(view.News) != 1 {
			t.Errorf("unexpected view %+v", view)
		}
		if !view.Unread {
			t.Error("news should be unread when nothing was viewed")
		}
		if mock.CallCount("ListDeepDives") != 1 || mock.CallCount("ListBreakingNews") != 1 {
			t.Errorf("unexpected calls %v", mock.Calls)
		}
	})

	t.Run("Home degrades when the backend is down", func(t *testing.T) {
		r := NewReader(&tu.MockContentService{Err: shared.ErrServiceUnavailable}, nil, nil, logger)

		view, err := r.Home(ctx, models.German)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !view.Feed.Fallback || view.NewsErr == nil {
			t.Errorf("expected fallback feed and news error, got %+v", view)
		}
	})
}
