// package formatter renders articles and news to Markdown, plain text, CSV and the terminal, and writes them to disk
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/shared"
	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripMarkup removes HTML tags from s and decodes entities.
func StripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// ArticleToMarkdown converts an article to Markdown with an optional hero image reference.
func ArticleToMarkdown(a *models.Article, imageFilename string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", a.Title)
	if a.Subtitle != "" {
		fmt.Fprintf(&buf, "*%s*\n\n", a.Subtitle)
	}
	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Hero](%s)\n\n", imageFilename)
	}

	buf.WriteString(byline(a))
	buf.WriteString("\n\n")

	for _, s := range a.Sections {
		writeSection(&buf, s)
	}

	return buf.Bytes()
}

func byline(a *models.Article) string {
	parts := make([]string, 0, 2)
	if a.Author != "" {
		parts = append(parts, "**"+a.Author+"**")
	}
	if a.Date != "" {
		parts = append(parts, a.Date)
	}
	return strings.Join(parts, " · ")
}

func writeSection(buf *bytes.Buffer, s models.Section) {
	fmt.Fprintf(buf, "## %s\n\n", s.Headline)
	if s.Image != "" {
		fmt.Fprintf(buf, "![%s](%s)\n\n", s.Headline, s.Image)
	}
	for _, p := range s.Content {
		buf.WriteString(strings.TrimSpace(p))
		buf.WriteString("\n\n")
	}
}

// SectionPage renders section i of a as a standalone Markdown page, numbered from zero.
func SectionPage(a *models.Article, i int) (string, error) {
	if i < 0 || i >= len(a.Sections) {
		return "", fmt.Errorf("%w: section %d of %d", shared.ErrInvalidArgument, i+1, len(a.Sections))
	}

	var buf bytes.Buffer
	if i == 0 {
		fmt.Fprintf(&buf, "# %s\n\n", a.Title)
		if a.Subtitle != "" {
			fmt.Fprintf(&buf, "*%s*\n\n", a.Subtitle)
		}
		buf.WriteString(byline(a))
		buf.WriteString("\n\n")
	}
	writeSection(&buf, a.Sections[i])
	return buf.String(), nil
}

// ArticleToText converts an article to plain text
func ArticleToText(a *models.Article) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", a.Title)
	if a.Subtitle != "" {
		fmt.Fprintf(&buf, "%s\n", a.Subtitle)
	}
	if a.Author != "" || a.Date != "" {
		fmt.Fprintf(&buf, "%s\n", strings.TrimSpace(a.Author+" "+a.Date))
	}

	for _, s := range a.Sections {
		fmt.Fprintf(&buf, "\n%s\n%s\n", s.Headline, strings.Repeat("-", len([]rune(s.Headline))))
		for _, p := range s.Content {
			fmt.Fprintf(&buf, "%s\n", strings.TrimSpace(p))
		}
	}

	return buf.Bytes()
}

// ArticleToCSV writes one row per paragraph with columns: Section, Headline, Paragraph, Text
func ArticleToCSV(a *models.Article) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Section", "Headline", "Paragraph", "Text"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range a.Sections {
		for i, p := range s.Content {
			if err := writer.Write([]string{s.ID, s.Headline, strconv.Itoa(i + 1), p}); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// NewsToMarkdown converts a breaking news detail to Markdown.
func NewsToMarkdown(d *models.BreakingNewsDetail) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", d.Headline)
	if !d.CreatedAt.IsZero() {
		fmt.Fprintf(&buf, "_%s_\n\n", d.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if d.ImageURL != "" {
		fmt.Fprintf(&buf, "![%s](%s)\n\n", d.Headline, d.ImageURL)
	}
	if intro := StripMarkup(d.Introduction); intro != "" {
		fmt.Fprintf(&buf, "**%s**\n\n", intro)
	}
	if body := StripMarkup(d.Content); body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// RenderTerminal renders Markdown for a terminal of the given width.
//
// style is a glamour standard style ("dark", "light", "notty", ...); empty selects one from the terminal background.
func RenderTerminal(markdown string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of article metadata (without sections)
func ToMetadataJSON(a *models.Article) ([]byte, error) {
	meta := *a
	meta.Sections = nil
	return shared.MarshalJSON(meta, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SectionsFile string
	MetadataFile string
}

// WriteCSVExport exports an article to {base}_sections.csv and {base}_metadata.json.
//
// Defaults to the article ID as the base filename.
func WriteCSVExport(a *models.Article, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = a.ID
	}

	csvData, err := ArticleToCSV(a)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	sectionsFile := baseFilepath + "_sections.csv"
	if err := os.WriteFile(sectionsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(a)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{SectionsFile: sectionsFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	HeroImage string
}

// WriteMarkdownExport exports an article to Markdown in a dedicated directory.
//
// Directory name defaults to the article ID. When download is set, the hero image is saved next to
// the Markdown file; a failed download is logged as a warning and the export continues without it.
// Creates {dir}/README.md and optionally {dir}/hero.jpg
func WriteMarkdownExport(ctx context.Context, a *models.Article, outputDir string, download bool, logger *log.Logger) (*MarkdownExportResult, error) {
	if logger == nil {
		logger = log.Default()
	}
	if outputDir == "" {
		outputDir = a.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var heroFilename string
	if download && a.HeroImage != "" {
		imageData, err := DownloadImage(ctx, nil, a.HeroImage)
		if err != nil {
			logger.Warn("failed to download hero image", "article", a.ID, "url", a.HeroImage, "error", err)
		} else {
			heroFilename = "hero.jpg"
			heroPath := filepath.Join(outputDir, heroFilename)
			if err := os.WriteFile(heroPath, imageData, 0644); err != nil {
				logger.Warn("failed to save hero image", "article", a.ID, "path", heroPath, "error", err)
				heroFilename = ""
			} else {
				result.HeroImage = heroPath
				result.Files = append(result.Files, heroPath)
			}
		}
	} else if a.HeroImage != "" {
		heroFilename = a.HeroImage
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, ArticleToMarkdown(a, heroFilename), 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteTextExport exports an article to plain text.
//
// Defaults to {article.ID}.txt as the filename.
func WriteTextExport(a *models.Article, path string) (string, error) {
	if path == "" {
		path = a.ID + ".txt"
	}

	if err := os.WriteFile(path, ArticleToText(a), 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}
