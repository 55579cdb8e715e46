package tasks

import (
	"context"
	"errors"
	"fmt"
	"html"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/services"
	"github.com/desertthunder/deepdive/internal/shared"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"
)

// NotificationTitle is the title of every breaking news notification.
const NotificationTitle = "Breaking News!"

// KeyValueStore is the persistence surface for reader state.
//
// Get returns an error wrapping [shared.ErrNotFound] for missing keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// HasUnread reports whether news contains an item newer than lastViewed.
//
// An empty list is never unread; a nil lastViewed means nothing has been viewed yet.
func HasUnread(news []models.BreakingNews, lastViewed *time.Time) bool {
	if len(news) == 0 {
		return false
	}
	if lastViewed == nil {
		return true
	}
	return Newest(news).After(*lastViewed)
}

// Newest returns the latest created_at in news.
func Newest(news []models.BreakingNews) time.Time {
	var newest time.Time
	for _, n := range news {
		if n.CreatedAt.After(newest) {
			newest = n.CreatedAt.Time
		}
	}
	return newest
}

// NewsTracker keeps the breaking news read marker.
type NewsTracker struct {
	store KeyValueStore
}

func NewNewsTracker(store KeyValueStore) *NewsTracker {
	return &NewsTracker{store: store}
}

// LastViewed returns the stored marker, or nil when none is stored or it cannot be parsed.
func (t *NewsTracker) LastViewed(ctx context.Context) (*time.Time, error) {
	value, err := t.store.Get(ctx, models.PreferenceLastViewedNews)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last viewed marker: %w", err)
	}

	ts, err := models.ParseTimestamp(value)
	if err != nil {
		return nil, nil
	}
	return &ts, nil
}

// Unread reports whether news has items the user has not seen.
func (t *NewsTracker) Unread(ctx context.Context, news []models.BreakingNews) (bool, error) {
	lastViewed, err := t.LastViewed(ctx)
	if err != nil {
		return len(news) > 0, err
	}
	return HasUnread(news, lastViewed), nil
}

// MarkRead stores the newest created_at in news as the marker. An empty list leaves the marker unchanged.
func (t *NewsTracker) MarkRead(ctx context.Context, news []models.BreakingNews) error {
	if len(news) == 0 {
		return nil
	}
	newest := Newest(news)
	if err := t.store.Set(ctx, models.PreferenceLastViewedNews, newest.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to store last viewed marker: %w", err)
	}
	return nil
}

// Notifier delivers a user-visible notification.
type Notifier interface {
	Notify(title, body string) error
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(title, body string) error

func (f NotifierFunc) Notify(title, body string) error { return f(title, body) }

// DesktopNotifier shows notifications through the operating system.
var DesktopNotifier Notifier = NotifierFunc(shared.Notify)

var plainText = bluemonday.StrictPolicy()

// NotifyBreakingNews sends item through n. The body is the item's X post or headline with markup removed.
func NotifyBreakingNews(n Notifier, item models.BreakingNews) error {
	body := html.UnescapeString(plainText.Sanitize(item.NotificationBody()))
	return n.Notify(NotificationTitle, strings.TrimSpace(body))
}

// NewsWatcher polls for breaking news and hands each new item to its subscribers.
//
// The first poll only records what already exists; later polls deliver items not seen before,
// oldest first.
type NewsWatcher struct {
	content services.ContentService
	lang    models.Language
	limiter *rate.Limiter
	logger  *log.Logger

	mu     sync.Mutex
	subs   map[int]func(models.BreakingNews)
	nextID int
	seen   map[string]bool
	primed bool
}

// NewNewsWatcher creates a watcher that polls at most once per interval.
func NewNewsWatcher(content services.ContentService, lang models.Language, interval time.Duration, logger *log.Logger) *NewsWatcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &NewsWatcher{
		content: content,
		lang:    lang,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
		subs:    map[int]func(models.BreakingNews){},
		seen:    map[string]bool{},
	}
}

// Subscribe registers fn and returns a function that removes it. Calling the returned function more than once is safe.
func (w *NewsWatcher) Subscribe(fn func(models.BreakingNews)) (unsubscribe func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			delete(w.subs, id)
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (w *NewsWatcher) Subscribers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}

// Poll fetches breaking news once, delivers unseen items and returns them.
func (w *NewsWatcher) Poll(ctx context.Context) ([]models.BreakingNews, error) {
	news, err := w.content.ListBreakingNews(ctx, w.lang)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	var fresh []models.BreakingNews
	for _, n := range news {
		if w.seen[n.ID] {
			continue
		}
		w.seen[n.ID] = true
		if w.primed {
			fresh = append(fresh, n)
		}
	}
	w.primed = true

	subs := make([]int, 0, len(w.subs))
	for id := range w.subs {
		subs = append(subs, id)
	}
	slices.Sort(subs)
	fns := make([]func(models.BreakingNews), len(subs))
	for i, id := range subs {
		fns[i] = w.subs[id]
	}
	w.mu.Unlock()

	slices.SortStableFunc(fresh, func(a, b models.BreakingNews) int {
		return a.CreatedAt.Compare(b.CreatedAt.Time)
	})

	for _, n := range fresh {
		for _, fn := range fns {
			fn(n)
		}
	}
	return fresh, nil
}

// Run polls until ctx is done. Poll failures are logged and retried on the next tick.
func (w *NewsWatcher) Run(ctx context.Context) error {
	for {
		// Wait fails early when the next tick falls past the ctx deadline.
		if err := w.limiter.Wait(ctx); err != nil {
			<-ctx.Done()
			return nil
		}

		fresh, err := w.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Warn("failed to poll breaking news", "lang", w.lang, "error", err)
			continue
		}
		if len(fresh) > 0 {
			w.logger.Info("new breaking news", "count", len(fresh))
		}
	}
}
