package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/shared"
	"github.com/desertthunder/deepdive/internal/tasks"
	tu "github.com/desertthunder/deepdive/internal/testing"
	"github.com/desertthunder/deepdive/internal/theme"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type fixture struct {
	model   *Model
	content *tu.MockContentService
	store   *tu.MemoryStore
	opened  []string
}

func newFixture(t *testing.T, watcher bool) *fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := shared.NewLogger(io.Discard)
	content := &tu.MockContentService{
		DeepDives: []models.RawArticle{
			{RawID: "a1", LanguageCode: "de", Title: "Die Saison", Author: "Jane", PublishedAt: "2025-03-02T08:00:00Z"},
			{RawID: "a2", LanguageCode: "de", Title: "Der Draft"},
		},
		Articles: map[string]*models.RawArticle{
			"a1": {
				RawID: "a1", LanguageCode: "de", Title: "Die Saison", AudioFile: new(string),
				Sections: map[string]string{
					"section_1": "## Einleitung\nHallo.",
					"section_2": "## Analyse\nZahlen.",
					"section_10": "## Fazit\nEnde.",
				},
			},
		},
		BreakingNews: []models.BreakingNews{
			{ID: "n1", Headline: "Trade perfekt", CreatedAt: models.Timestamp{Time: time.Now()}},
		},
		NewsDetails: map[string]*models.BreakingNewsDetail{
			"n1": {ID: "n1", Headline: "Trade perfekt", Content: "<p>Details</p>"},
		},
	}
	*content.Articles["a1"].AudioFile = "https://cdn/a1.mp3"

	store := tu.NewMemoryStore()
	tracker := tasks.NewNewsTracker(store)
	f := &fixture{content: content, store: store}

	deps := Deps{
		Reader:  tasks.NewReader(content, nil, tracker, logger),
		Content: content,
		Tracker: tracker,
		Theme:   theme.DefaultTheme(),
		Lang:    models.German,
		Style:   "notty",
		Open: func(url string) error {
			f.opened = append(f.opened, url)
			return nil
		},
	}
	if watcher {
		deps.Watcher = tasks.NewNewsWatcher(content, models.German, time.Second, logger)
	}

	f.model = NewModel(ctx, deps)
	t.Cleanup(f.model.Close)
	return f
}

// send applies msg and returns the resulting command without running it.
func (f *fixture) send(msg tea.Msg) tea.Cmd {
	_, cmd := f.model.Update(msg)
	return cmd
}

func (f *fixture) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(Msg); ok {
			f.model.Update(msg)
		}
	}
}

func (f *fixture) loadHome(t *testing.T) {
	t.Helper()
	f.model.Update(f.model.loadHome()())
}

func TestFeed(t *testing.T) {
	t.Run("home populates the feed and unread badge", func(t *testing.T) {
		f := newFixture(t, false)
		f.loadHome(t)

		if got := len(f.model.feedList.Items()); got != 2 {
			t.Fatalf("expected 2 articles, got %d", got)
		}
		if !f.model.unread {
			t.Error("expected unread news")
		}
		if view := f.model.View(); !strings.Contains(view, "●") || !strings.Contains(view, "Deep Dives") {
			t.Errorf("unexpected view:\n%s", view)
		}
	})

	t.Run("fallback feed shows a notice", func(t *testing.T) {
		f := newFixture(t, false)
		f.content.Err = shared.ErrServiceUnavailable
		f.loadHome(t)

		if !f.model.feed.Fallback {
			t.Fatal("expected fallback feed")
		}
		if !strings.Contains(f.model.View(), "Offline") {
			t.Errorf("expected offline notice in view")
		}
	})

	t.Run("home error is shown", func(t *testing.T) {
		f := newFixture(t, false)
		f.model.Update(homeLoadedMsg(nil, errors.New("boom")))

		if !strings.Contains(f.model.View(), "Error: boom") {
			t.Errorf("unexpected view:\n%s", f.model.View())
		}
	})
}

func TestReader(t *testing.T) {
	f := newFixture(t, false)
	f.loadHome(t)

	f.run(f.send(tea.KeyMsg{Type: tea.KeyEnter}))

	if f.model.view != ReaderView {
		t.Fatalf("expected reader view, got %v", f.model.view)
	}
	if got := len(f.model.article.Sections); got != 3 {
		t.Fatalf("expected 3 sections, got %d", got)
	}
	if !strings.Contains(f.model.View(), "1/3 · Einleitung") {
		t.Errorf("unexpected reader header:\n%s", f.model.View())
	}

	t.Run("pages forward in numeric order", func(t *testing.T) {
		f.send(runes("n"))
		f.send(runes("n"))
		if f.model.page != 2 || f.model.article.Sections[2].Headline != "Fazit" {
			t.Errorf("expected last page Fazit, got page %d", f.model.page)
		}
		f.send(runes("n"))
		if f.model.page != 2 {
			t.Errorf("paging past the end should stay on the last page, got %d", f.model.page)
		}
	})

	t.Run("pages back", func(t *testing.T) {
		f.send(runes("p"))
		f.send(runes("p"))
		f.send(runes("p"))
		if f.model.page != 0 {
			t.Errorf("expected first page, got %d", f.model.page)
		}
	})

	t.Run("audio", func(t *testing.T) {
		f.run(f.send(runes("a")))
		if len(f.opened) != 1 || f.opened[0] != "https://cdn/a1.mp3" {
			t.Errorf("unexpected opened urls %v", f.opened)
		}
		if !strings.HasPrefix(f.model.status, "Playing") {
			t.Errorf("unexpected status %q", f.model.status)
		}
	})

	t.Run("back to feed", func(t *testing.T) {
		f.send(tea.KeyMsg{Type: tea.KeyEsc})
		if f.model.view != FeedView {
			t.Errorf("expected feed view, got %v", f.model.view)
		}
	})

	t.Run("article without sections", func(t *testing.T) {
		f.model.Update(articleOpenedMsg(&models.Article{ID: "x", Title: "Leer", Sections: []models.Section{}}, nil))
		if !strings.Contains(f.model.View(), "0/0") {
			t.Errorf("unexpected view:\n%s", f.model.View())
		}
		f.send(runes("n"))
		if f.model.page != 0 {
			t.Errorf("expected page 0, got %d", f.model.page)
		}
	})

	t.Run("open failure keeps the current view", func(t *testing.T) {
		f.model.view = FeedView
		f.model.Update(articleOpenedMsg(nil, shared.ErrArticleNotFound))
		if f.model.view != FeedView || !strings.Contains(f.model.status, "article not found") {
			t.Errorf("unexpected state %v %q", f.model.view, f.model.status)
		}
	})
}

func TestNews(t *testing.T) {
	ctx := context.Background()

	t.Run("opening the news marks it read", func(t *testing.T) {
		f := newFixture(t, false)
		f.loadHome(t)

		f.run(f.send(tea.KeyMsg{Type: tea.KeyTab}))

		if f.model.view != NewsView {
			t.Fatalf("expected news view, got %v", f.model.view)
		}
		if f.model.unread {
			t.Error("expected news marked read")
		}
		if _, err := f.store.Get(ctx, models.PreferenceLastViewedNews); err != nil {
			t.Errorf("expected stored marker, got %v", err)
		}
	})

	t.Run("detail", func(t *testing.T) {
		f := newFixture(t, false)
		f.loadHome(t)
		f.send(tea.KeyMsg{Type: tea.KeyTab})

		f.run(f.send(tea.KeyMsg{Type: tea.KeyEnter}))
		if f.model.view != NewsDetailView || f.model.detail.ID != "n1" {
			t.Fatalf("expected detail view for n1, got %v", f.model.view)
		}
		if !strings.Contains(f.model.View(), "Details") {
			t.Errorf("unexpected detail view:\n%s", f.model.View())
		}

		f.send(tea.KeyMsg{Type: tea.KeyEsc})
		if f.model.view != NewsView {
			t.Errorf("expected news view, got %v", f.model.view)
		}
	})

	t.Run("arrivals set the badge outside the news view", func(t *testing.T) {
		f := newFixture(t, false)
		f.loadHome(t)
		f.model.unread = false

		f.model.Update(newsArrivedMsg(models.BreakingNews{ID: "n2", Headline: "Neuer Trade"}))

		if !f.model.unread {
			t.Error("expected unread badge")
		}
		if len(f.model.newsList.Items()) != 2 || f.model.news[0].ID != "n2" {
			t.Errorf("expected new item first, got %+v", f.model.news)
		}
		if !strings.Contains(f.model.status, "Neuer Trade") {
			t.Errorf("unexpected status %q", f.model.status)
		}
	})

	t.Run("watcher delivers to the model", func(t *testing.T) {
		f := newFixture(t, true)
		f.loadHome(t)

		f.model.deps.Watcher.Poll(ctx)
		f.content.SetBreakingNews(append(f.content.BreakingNews, models.BreakingNews{ID: "n3", Headline: "Live"}))
		f.model.deps.Watcher.Poll(ctx)

		msg := f.model.waitForNews()()
		got, ok := msg.(Msg)
		if !ok || got.kind != MsgNewsArrived || got.data.(models.BreakingNews).ID != "n3" {
			t.Fatalf("unexpected message %#v", msg)
		}
	})

	t.Run("Close unsubscribes", func(t *testing.T) {
		f := newFixture(t, true)
		if f.model.deps.Watcher.Subscribers() != 1 {
			t.Fatalf("expected a subscription")
		}
		f.model.Close()
		if f.model.deps.Watcher.Subscribers() != 0 {
			t.Errorf("expected no subscriptions after Close")
		}
	})
}

func TestQuit(t *testing.T) {
	f := newFixture(t, false)
	cmd := f.send(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestThemePalette(t *testing.T) {
	p := ThemePalette(theme.DefaultTheme())
	if got := p.header.GetForeground(); got != lipgloss.Color("#0f3d2e") {
		t.Errorf("expected brand header colour, got %v", got)
	}
}
