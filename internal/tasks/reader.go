package tasks

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/sections"
	"github.com/desertthunder/deepdive/internal/services"
	"github.com/goodsign/monday"
	"golang.org/x/sync/errgroup"
)

//go:embed fallback_feed.json
var fallbackFeed []byte

// HistoryRecorder stores that an item was opened.
type HistoryRecorder interface {
	Record(ctx context.Context, articleID string, kind models.ReadKind, title string) (*models.ReadEntry, error)
}

// FeedResult is the deep-dive feed for a language.
type FeedResult struct {
	Articles []models.RawArticle
	Fallback bool  // Articles came from the bundled feed
	Err      error // upstream error that triggered the fallback
}

// HomeView is everything the landing screen shows.
type HomeView struct {
	Feed    FeedResult
	News    []models.BreakingNews
	NewsErr error
	Unread  bool
}

// Reader turns backend rows into render-ready articles.
type Reader struct {
	content services.ContentService
	history HistoryRecorder
	tracker *NewsTracker
	logger  *log.Logger
}

// NewReader creates a [Reader]. history and tracker may be nil.
func NewReader(content services.ContentService, history HistoryRecorder, tracker *NewsTracker, logger *log.Logger) *Reader {
	if logger == nil {
		logger = log.Default()
	}
	return &Reader{content: content, history: history, tracker: tracker, logger: logger}
}

// Feed lists deep dives for lang. When the backend fails the bundled feed is returned
// with Fallback set; only cancellation of ctx is reported as an error.
func (r *Reader) Feed(ctx context.Context, lang models.Language) (FeedResult, error) {
	articles, err := r.content.ListDeepDives(ctx, lang)
	if err == nil {
		return FeedResult{Articles: articles}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return FeedResult{}, ctxErr
	}

	r.logger.Warn("failed to fetch articles, using fallback feed", "lang", lang, "error", err)

	fallback, decodeErr := FallbackFeed(lang)
	if decodeErr != nil {
		return FeedResult{}, errors.Join(err, decodeErr)
	}
	return FeedResult{Articles: fallback, Fallback: true, Err: err}, nil
}

// FallbackFeed returns the bundled articles for lang.
func FallbackFeed(lang models.Language) ([]models.RawArticle, error) {
	var all []models.RawArticle
	if err := json.Unmarshal(fallbackFeed, &all); err != nil {
		return nil, fmt.Errorf("failed to decode fallback feed: %w", err)
	}

	articles := make([]models.RawArticle, 0, len(all))
	for _, a := range all {
		if lang == "" || a.LanguageCode == lang.String() {
			articles = append(articles, a)
		}
	}
	return articles, nil
}

// Open fetches the full article, parses its sections and records the read.
func (r *Reader) Open(ctx context.Context, id string) (*models.Article, error) {
	raw, err := r.content.GetDeepDive(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article %s: %w", id, err)
	}

	article := BuildArticle(*raw)

	if r.history != nil {
		if _, err := r.history.Record(ctx, article.ID, models.ReadArticle, article.Title); err != nil {
			r.logger.Warn("failed to record read", "article", article.ID, "error", err)
		}
	}

	return &article, nil
}

// BuildArticle maps a row to its render-ready form. A row without sections has zero sections.
func BuildArticle(raw models.RawArticle) models.Article {
	lang, err := models.ParseLanguage(raw.LanguageCode)
	if err != nil {
		lang = models.DefaultLanguage
	}

	published := raw.Published()

	article := models.Article{
		ID:           raw.RawID,
		Title:        raw.Title,
		Subtitle:     raw.Subtitle,
		Author:       raw.Author,
		PublishedAt:  published,
		Date:         FormatDate(published, lang),
		HeroImage:    raw.HeroImageURL,
		LanguageCode: raw.LanguageCode,
		Sections:     sections.Parse(raw.Sections),
	}
	if raw.AudioFile != nil {
		article.AudioFile = *raw.AudioFile
	}
	if raw.VideoFile != nil {
		article.VideoFile = *raw.VideoFile
	}
	return article
}

// FormatDate renders t as a long date in the language's locale, e.g. "2. März 2025" or "March 2, 2025".
// The zero time renders as an empty string.
func FormatDate(t time.Time, lang models.Language) string {
	if t.IsZero() {
		return ""
	}
	if lang == models.English {
		return monday.Format(t, "January 2, 2006", monday.LocaleEnUS)
	}
	return monday.Format(t, "2. January 2006", monday.LocaleDeDE)
}

// Home loads the feed and breaking news concurrently. A breaking news failure is reported in NewsErr.
func (r *Reader) Home(ctx context.Context, lang models.Language) (*HomeView, error) {
	view := &HomeView{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		feed, err := r.Feed(gctx, lang)
		if err != nil {
			return err
		}
		view.Feed = feed
		return nil
	})

	g.Go(func() error {
		news, err := r.content.ListBreakingNews(gctx, lang)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Warn("failed to fetch breaking news", "lang", lang, "error", err)
			view.NewsErr = err
			return nil
		}
		view.News = news

		if r.tracker != nil {
			unread, err := r.tracker.Unread(gctx, news)
			if err != nil {
				r.logger.Warn("failed to read unread state", "error", err)
			}
			view.Unread = unread
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}
