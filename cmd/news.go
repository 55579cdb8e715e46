package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/deepdive/internal/formatter"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/shared"
	"github.com/desertthunder/deepdive/internal/tasks"
	"github.com/urfave/cli/v3"
)

// NewsList lists breaking news and whether any of it is unread.
func (r *Runner) NewsList(ctx context.Context, cmd *cli.Command) error {
	content, err := r.requireContent()
	if err != nil {
		return err
	}
	lang, err := r.lang(cmd)
	if err != nil {
		return err
	}

	news, err := content.ListBreakingNews(ctx, lang)
	if err != nil {
		return fmt.Errorf("failed to fetch breaking news: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(news, cmd.Bool("pretty"))
	}

	unread := false
	var lastViewed *time.Time
	if tracker, err := r.newsTracker(); err != nil {
		r.logger.Warn("unread tracking disabled", "error", err)
	} else {
		if unread, err = tracker.Unread(ctx, news); err != nil {
			r.logger.Warn("failed to check unread news", "error", err)
		}
		if lastViewed, err = tracker.LastViewed(ctx); err != nil {
			r.logger.Warn("failed to read last viewed marker", "error", err)
		}
	}

	title := "Breaking News"
	if unread {
		title += " ●"
	}
	r.writePlainHeader(title)
	if len(news) == 0 {
		r.writePlain("No breaking news in the last 48 hours\n")
		return nil
	}

	for _, n := range news {
		marker := " "
		if lastViewed == nil || n.CreatedAt.After(*lastViewed) {
			marker = "•"
		}
		r.writePlain("%s %s  %s\n", marker, n.CreatedAt.Local().Format("Jan 02 15:04"), formatter.StripMarkup(n.Headline))
		if n.SubHeader != "" {
			r.writePlain("    %s\n", formatter.StripMarkup(n.SubHeader))
		}
		r.writePlain("    id: %s\n", n.ID)
	}
	r.writePlain("\nTotal: %d items\n", len(news))
	return nil
}

// NewsShow renders one breaking news item.
func (r *Runner) NewsShow(ctx context.Context, cmd *cli.Command) error {
	content, err := r.requireContent()
	if err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: news id", shared.ErrMissingArgument)
	}

	detail, err := content.GetBreakingNewsDetail(ctx, id)
	if err != nil {
		return err
	}

	if history := r.historyRecorder(); history != nil {
		if _, err := history.Record(ctx, detail.ID, models.ReadNews, detail.Headline); err != nil {
			r.logger.Warn("failed to record read", "news", detail.ID, "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, cmd.Bool("pretty"))
	}

	markdown := string(formatter.NewsToMarkdown(detail))
	rendered, err := formatter.RenderTerminal(markdown, renderWidth, "")
	if err != nil {
		r.logger.Warn("failed to render news, printing markdown", "error", err)
		rendered = markdown
	}
	return r.writePlain("%s", rendered)
}

// NewsRead marks everything currently listed as read.
func (r *Runner) NewsRead(ctx context.Context, cmd *cli.Command) error {
	content, err := r.requireContent()
	if err != nil {
		return err
	}
	lang, err := r.lang(cmd)
	if err != nil {
		return err
	}
	tracker, err := r.newsTracker()
	if err != nil {
		return err
	}

	news, err := content.ListBreakingNews(ctx, lang)
	if err != nil {
		return fmt.Errorf("failed to fetch breaking news: %w", err)
	}
	if err := tracker.MarkRead(ctx, news); err != nil {
		return err
	}

	r.writePlain("✓ Marked %d items as read\n", len(news))
	return nil
}

// NewsWatch polls for breaking news until interrupted, printing and notifying each new item.
func (r *Runner) NewsWatch(ctx context.Context, cmd *cli.Command) error {
	content, err := r.requireContent()
	if err != nil {
		return err
	}
	lang, err := r.lang(cmd)
	if err != nil {
		return err
	}

	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = r.watchInterval()
	}
	notify := !cmd.Bool("no-notify")
	asJSON := cmd.Bool("json")

	watcher := tasks.NewNewsWatcher(content, lang, interval, r.logger)

	var mu sync.Mutex
	unsubscribe := watcher.Subscribe(func(n models.BreakingNews) {
		mu.Lock()
		defer mu.Unlock()

		if asJSON {
			r.writeJSON(n, false)
		} else {
			r.writePlain("%s  %s\n", n.CreatedAt.Local().Format("15:04"), formatter.StripMarkup(n.Headline))
		}
		if notify {
			if err := tasks.NotifyBreakingNews(r.notifier, n); err != nil {
				r.logger.Warn("failed to send notification", "news", n.ID, "error", err)
			}
		}
	})
	defer unsubscribe()

	r.logger.Info("watching breaking news", "lang", lang, "interval", interval)
	return watcher.Run(ctx)
}
