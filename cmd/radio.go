package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/services"
	"github.com/desertthunder/deepdive/internal/shared"
	"github.com/urfave/cli/v3"
)

// RadioNews lists the latest narrated news.
func (r *Runner) RadioNews(ctx context.Context, cmd *cli.Command) error {
	content, err := r.requireContent()
	if err != nil {
		return err
	}
	lang, err := r.lang(cmd)
	if err != nil {
		return err
	}

	items, err := content.ListRadioNews(ctx, lang)
	if err != nil {
		return fmt.Errorf("failed to fetch radio news: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Radio News")
	if len(items) == 0 {
		r.writePlain("No radio news available\n")
		return nil
	}
	for _, n := range items {
		team := ""
		if n.PrimaryTeam != nil && *n.PrimaryTeam != "" {
			team = fmt.Sprintf(" [%s]", *n.PrimaryTeam)
		}
		r.writePlain("♪ %s  %s%s\n", n.CreatedAt.Local().Format("Jan 02 15:04"), n.Title, team)
		r.writePlain("    id: %s\n", n.ID)
	}
	r.writePlain("\nTotal: %d items\n", len(items))
	return nil
}

// RadioDeepDives lists the deep dives that carry narration audio.
func (r *Runner) RadioDeepDives(ctx context.Context, cmd *cli.Command) error {
	content, err := r.requireContent()
	if err != nil {
		return err
	}

	// Narrated deep dives default to English, unlike the article feed.
	lang := models.English
	if value := cmd.String("lang"); value != "" {
		if lang, err = models.ParseLanguage(value); err != nil {
			return err
		}
	}

	items, err := content.ListRadioDeepDives(ctx, lang)
	if err != nil {
		return fmt.Errorf("failed to fetch radio deep dives: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Radio Deep Dives (%s)", lang))
	if len(items) == 0 {
		r.writePlain("No narrated deep dives available\n")
		return nil
	}
	for i, d := range items {
		r.writePlain("♪ %d. %s\n", i+1, d.Title)
		if d.Subtitle != "" {
			r.writePlain("     %s\n", d.Subtitle)
		}
		r.writePlain("     id: %s\n", d.ID)
	}
	r.writePlain("\nTotal: %d items\n", len(items))
	return nil
}

// RadioListen opens the narration of a radio news item or deep dive in the system player.
func (r *Runner) RadioListen(ctx context.Context, cmd *cli.Command) error {
	content, err := r.requireContent()
	if err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	lang, err := r.lang(cmd)
	if err != nil {
		return err
	}

	title, audio, err := r.findAudio(ctx, content, lang, id)
	if err != nil {
		return err
	}
	audio = services.StorageURL(r.config.Supabase.URL, audio)

	if history := r.historyRecorder(); history != nil {
		if _, err := history.Record(ctx, id, models.ReadRadio, title); err != nil {
			r.logger.Warn("failed to record listen", "id", id, "error", err)
		}
	}

	r.logger.Info("opening audio", "id", id, "url", audio)
	if err := r.open(audio); err != nil {
		return err
	}
	r.writePlain("♪ Playing %s\n", title)
	return nil
}

// findAudio looks id up in the radio news, then the narrated deep dives, then the article itself.
func (r *Runner) findAudio(ctx context.Context, content services.ContentService, lang models.Language, id string) (title, audio string, err error) {
	if news, err := content.ListRadioNews(ctx, lang); err == nil {
		for _, n := range news {
			if n.ID == id && n.AudioURL != "" {
				return n.Title, n.AudioURL, nil
			}
		}
	} else {
		r.logger.Warn("failed to fetch radio news", "error", err)
	}

	if dives, err := content.ListRadioDeepDives(ctx, lang); err == nil {
		for _, d := range dives {
			if d.ID == id && d.AudioFile != "" {
				return d.Title, d.AudioFile, nil
			}
		}
	} else {
		r.logger.Warn("failed to fetch radio deep dives", "error", err)
	}

	raw, err := content.GetDeepDive(ctx, id)
	if err != nil {
		return "", "", err
	}
	if !raw.HasAudio() {
		return "", "", fmt.Errorf("%w: %s has no narration", shared.ErrNotFound, id)
	}
	return raw.Title, *raw.AudioFile, nil
}
