package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/deepdive/internal/formatter"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/shared"
	"github.com/desertthunder/deepdive/internal/tasks"
	"github.com/urfave/cli/v3"
)

const renderWidth = 100

// historyRecorder returns the reading history, or nil when the local store cannot be opened.
func (r *Runner) historyRecorder() tasks.HistoryRecorder {
	if err := r.store(); err != nil {
		r.logger.Warn("reading history disabled", "error", err)
		return nil
	}
	return r.history
}

// Feed lists the deep-dive articles for the selected language.
func (r *Runner) Feed(ctx context.Context, cmd *cli.Command) error {
	content, err := r.requireContent()
	if err != nil {
		return err
	}
	lang, err := r.lang(cmd)
	if err != nil {
		return err
	}

	result, err := tasks.NewReader(content, nil, nil, r.logger).Feed(ctx, lang)
	if err != nil {
		return err
	}

	articles := result.Articles
	if limit := int(cmd.Int("limit")); limit > 0 && limit < len(articles) {
		articles = articles[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(articles, cmd.Bool("pretty"))
	}

	read := map[string]bool{}
	if err := r.store(); err == nil {
		if read, err = r.history.ReadSet(ctx, models.ReadArticle); err != nil {
			r.logger.Warn("failed to load reading history", "error", err)
			read = map[string]bool{}
		}
	}

	r.writePlainHeader(fmt.Sprintf("Deep Dives (%s)", lang))
	if result.Fallback {
		r.writePlain("⚠ Showing the offline feed: %v\n\n", result.Err)
	}
	if len(articles) == 0 {
		r.writePlain("No articles found\n")
		return nil
	}

	for i, a := range articles {
		marker := " "
		if read[a.RawID] {
			marker = "✓"
		}
		audio := ""
		if a.HasAudio() {
			audio = " ♪"
		}
		r.writePlain("%s %d. %s%s\n", marker, i+1, a.Title, audio)
		if a.Subtitle != "" {
			r.writePlain("     %s\n", a.Subtitle)
		}
		r.writePlain("     %s · %s · %s\n", shared.FirstNonEmpty(a.Author, "Unknown"), tasks.FormatDate(a.Published(), lang), a.RawID)
	}
	r.writePlain("\nTotal: %d articles\n", len(articles))
	return nil
}

// Read renders an article, or one of its sections, and records it in the reading history.
func (r *Runner) Read(ctx context.Context, cmd *cli.Command) error {
	content, err := r.requireContent()
	if err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: article id", shared.ErrMissingArgument)
	}

	article, err := tasks.NewReader(content, r.historyRecorder(), nil, r.logger).Open(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(article, cmd.Bool("pretty"))
	}

	var markdown string
	if n := int(cmd.Int("section")); n != 0 {
		if markdown, err = formatter.SectionPage(article, n-1); err != nil {
			return err
		}
	} else {
		if cmd.Bool("plain") {
			_, err := r.output.Write(formatter.ArticleToText(article))
			return err
		}
		markdown = string(formatter.ArticleToMarkdown(article, article.HeroImage))
	}

	if cmd.Bool("plain") {
		return r.writePlain("%s", markdown)
	}

	rendered, err := formatter.RenderTerminal(markdown, renderWidth, cmd.String("style"))
	if err != nil {
		r.logger.Warn("failed to render article, printing markdown", "error", err)
		rendered = markdown
	}
	return r.writePlain("%s", rendered)
}

// Export writes articles to disk with a worker pool.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	content, err := r.requireContent()
	if err != nil {
		return err
	}

	ids := cmd.Args().Slice()
	if cmd.Bool("all") {
		lang, err := r.lang(cmd)
		if err != nil {
			return err
		}
		articles, err := content.ListDeepDives(ctx, lang)
		if err != nil {
			return fmt.Errorf("failed to list articles: %w", err)
		}
		for _, a := range articles {
			ids = append(ids, a.RawID)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: pass article ids or --all", shared.ErrMissingArgument)
	}

	opts := tasks.BulkExportOpts{
		Format:         cmd.String("format"),
		OutputDir:      cmd.String("output"),
		NumWorkers:     int(cmd.Int("workers")),
		RateLimit:      r.config.Reader.RequestsPerSecond,
		DownloadImages: cmd.Bool("download-images"),
		Logger:         r.logger,
	}

	r.logger.Info("starting export", "articles", len(ids), "format", opts.Format)

	prog := make(chan tasks.ProgressUpdate, len(ids)*3)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := tasks.BulkExport(ctx, prog, content, ids, opts)
	close(prog)
	<-done
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Export Complete")
	r.writePlain("Output:     %s\n", result.OutputDirectory)
	r.writePlain("Successful: %d/%d\n", result.SuccessfulExports, result.TotalArticles)
	if result.FailedExports > 0 {
		r.writePlainln("Failed:")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  ✗ %s: %s\n", res.ArticleID, res.ErrorText)
			}
		}
	}
	if result.ManifestPath != "" {
		r.writePlain("Manifest:   %s\n", result.ManifestPath)
	}
	return nil
}
