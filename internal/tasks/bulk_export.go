package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/deepdive/internal/formatter"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/services"
	"github.com/desertthunder/deepdive/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts configures [BulkExport].
type BulkExportOpts struct {
	Format         string      // markdown (default), txt, csv or json
	OutputDir      string      // Base output directory (default: deepdive_export_{epoch})
	NumWorkers     int         // Concurrent workers (default: 4, max: 10)
	RateLimit      float64     // Fetches per second (default: 5)
	DownloadImages bool        // Save hero images next to Markdown exports
	Logger         *log.Logger // Receives non-fatal export warnings (default: log.Default())
}

// ArticleExportResult is the outcome for a single article.
type ArticleExportResult struct {
	ArticleID string   `json:"article_id"`
	Title     string   `json:"title"`
	Success   bool     `json:"success"`
	Files     []string `json:"files,omitempty"`
	Error     error    `json:"-"`
	ErrorText string   `json:"error,omitempty"`
}

// BulkExportResult summarises a [BulkExport] run.
type BulkExportResult struct {
	TotalArticles     int                   `json:"total_articles"`
	SuccessfulExports int                   `json:"successful_exports"`
	FailedExports     int                   `json:"failed_exports"`
	OutputDirectory   string                `json:"output_directory"`
	ManifestPath      string                `json:"-"`
	Results           []ArticleExportResult `json:"results"`
}

type articleExportJob struct {
	article models.Article
}

// BulkExport fetches and exports the given articles with a worker pool.
//
// Fetches are rate limited; writing happens on NumWorkers goroutines. Individual failures are recorded
// in the result and do not stop the run. A manifest summarising the run is written to the output directory.
func BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	content services.ContentService,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if content == nil {
		return nil, fmt.Errorf("%w: content service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("deepdive_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Format == "" {
		opts.Format = "markdown"
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalArticles:   len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ArticleExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan articleExportJob, len(ids))
	results := make(chan ArticleExportResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go exportWorker(ctx, &wg, jobs, results, opts)
	}

	// The producer joins the wait group so results stays open while it may still report fetch failures.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			sendProgress(prog, fetchArticleUpdate(i+1, len(ids), id))

			raw, err := content.GetDeepDive(ctx, id)
			if err != nil {
				results <- ArticleExportResult{
					ArticleID: id,
					Title:     fmt.Sprintf("Unknown (%s)", id),
					Error:     fmt.Errorf("failed to fetch article: %w", err),
				}
				continue
			}

			article := BuildArticle(*raw)
			sendProgress(prog, parseSectionsUpdate(i+1, len(ids), &article))

			jobs <- articleExportJob{article: article}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Error != nil {
			res.ErrorText = res.Error.Error()
		}
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.Title, res.Files[len(res.Files)-1]))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(ids), res.ArticleID, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports articles from the jobs channel.
func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan articleExportJob,
	results chan<- ArticleExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- ExportArticle(ctx, &job.article, opts)
	}
}

// ExportArticle writes a to opts.OutputDir in opts.Format.
func ExportArticle(ctx context.Context, a *models.Article, opts BulkExportOpts) ArticleExportResult {
	result := ArticleExportResult{
		ArticleID: a.ID,
		Title:     a.Title,
		Files:     []string{},
	}

	switch opts.Format {
	case "csv":
		csvRes, err := formatter.WriteCSVExport(a, filepath.Join(opts.OutputDir, a.ID))
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.SectionsFile, csvRes.MetadataFile}

	case "txt":
		path, err := formatter.WriteTextExport(a, filepath.Join(opts.OutputDir, a.ID+".txt"))
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	case "json":
		jsonPath := filepath.Join(opts.OutputDir, a.ID+".json")
		data, err := shared.MarshalJSON(a, true)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}

	case "markdown", "md":
		mdRes, err := formatter.WriteMarkdownExport(ctx, a, filepath.Join(opts.OutputDir, a.ID), opts.DownloadImages, opts.Logger)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files

	default:
		result.Error = fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, opts.Format)
		return result
	}

	result.Success = true
	return result
}
