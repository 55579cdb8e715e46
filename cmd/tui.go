package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/deepdive/internal/shared"
	"github.com/desertthunder/deepdive/internal/tasks"
	"github.com/desertthunder/deepdive/internal/theme"
	"github.com/desertthunder/deepdive/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive reader.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	content, err := r.requireContent()
	if err != nil {
		return err
	}
	lang, err := r.lang(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/deepdive-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var tracker *tasks.NewsTracker
	var history tasks.HistoryRecorder
	currentTheme := theme.FromHex(r.config.Theme.DefaultColor)
	if err := r.store(); err != nil {
		r.logger.Warn("reading history and unread tracking disabled", "error", err)
	} else {
		tracker = tasks.NewNewsTracker(r.prefs)
		history = r.history
		currentTheme = r.themeLoader().Current(ctx, r.prefs)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := tasks.NewNewsWatcher(content, lang, r.watchInterval(), r.logger)
	model := ui.NewModel(ctx, ui.Deps{
		Reader:  tasks.NewReader(content, history, tracker, r.logger),
		Content: content,
		Tracker: tracker,
		Watcher: watcher,
		Theme:   currentTheme,
		Lang:    lang,
		Open:    r.open,
	})
	defer model.Close()

	go watcher.Run(ctx)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return model.Err()
}
