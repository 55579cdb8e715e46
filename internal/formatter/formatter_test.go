package formatter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/shared"
	th "github.com/desertthunder/deepdive/internal/testing"
)

func testArticle() *models.Article {
	return &models.Article{
		ID:           "a1",
		Title:        "Deep Dive",
		Subtitle:     "Numbers behind the season",
		Author:       "Jane Doe",
		Date:         "2. März 2025",
		LanguageCode: "de",
		Sections: []models.Section{
			{ID: "section_1", Headline: "Intro", Content: []string{"Welcome."}},
			{ID: "section_2", Headline: "Deep Dive", Content: []string{"Analysis", "The numbers show, quite clearly..."}},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ArticleToMarkdown", func(t *testing.T) {
		output := string(ArticleToMarkdown(testArticle(), "hero.jpg"))

		for _, want := range []string{
			"# Deep Dive\n",
			"*Numbers behind the season*",
			"![Hero](hero.jpg)",
			"**Jane Doe** · 2. März 2025",
			"## Intro\n\nWelcome.\n",
			"## Deep Dive\n\nAnalysis\n\nThe numbers show",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}

		if strings.Index(output, "## Intro") > strings.Index(output, "## Deep Dive") {
			t.Error("sections out of order")
		}
	})

	t.Run("ArticleToMarkdown without image", func(t *testing.T) {
		output := string(ArticleToMarkdown(testArticle(), ""))
		if strings.Contains(output, "![Hero]") {
			t.Error("Markdown should not reference an image")
		}
	})

	t.Run("SectionPage", func(t *testing.T) {
		a := testArticle()

		first, err := SectionPage(a, 0)
		if err != nil {
			t.Fatalf("SectionPage failed: %v", err)
		}
		if !strings.HasPrefix(first, "# Deep Dive") || !strings.Contains(first, "## Intro") {
			t.Errorf("first page should carry the title and first section, got:\n%s", first)
		}

		second, err := SectionPage(a, 1)
		if err != nil {
			t.Fatalf("SectionPage failed: %v", err)
		}
		if strings.HasPrefix(second, "# ") || !strings.Contains(second, "Analysis") {
			t.Errorf("unexpected second page:\n%s", second)
		}

		for _, i := range []int{-1, 2} {
			if _, err := SectionPage(a, i); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("page %d: expected ErrInvalidArgument, got %v", i, err)
			}
		}
	})

	t.Run("ArticleToText", func(t *testing.T) {
		output := string(ArticleToText(testArticle()))

		if !strings.HasPrefix(output, "Deep Dive\nNumbers behind the season\nJane Doe 2. März 2025\n") {
			t.Errorf("unexpected header:\n%s", output)
		}
		if !strings.Contains(output, "Intro\n-----\nWelcome.\n") {
			t.Errorf("missing underlined section, got:\n%s", output)
		}
	})

	t.Run("ArticleToCSV", func(t *testing.T) {
		data, err := ArticleToCSV(testArticle())
		if err != nil {
			t.Fatalf("ArticleToCSV failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "Section,Headline,Paragraph,Text\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `section_2,Deep Dive,2,"The numbers show, quite clearly..."`) {
			t.Errorf("CSV should quote fields with commas, got: %s", output)
		}
		if lines := strings.Count(output, "\n"); lines != 4 {
			t.Errorf("expected 4 lines, got %d", lines)
		}
	})

	t.Run("NewsToMarkdown strips markup", func(t *testing.T) {
		d := &models.BreakingNewsDetail{
			Headline:     "Trade",
			CreatedAt:    models.Timestamp{Time: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)},
			Introduction: "<b>Big</b> news",
			Content:      "<p>Body &amp; more</p>",
		}
		output := string(NewsToMarkdown(d))

		if !strings.Contains(output, "**Big news**") {
			t.Errorf("introduction not stripped, got:\n%s", output)
		}
		if !strings.Contains(output, "Body & more") {
			t.Errorf("content not stripped, got:\n%s", output)
		}
	})

	t.Run("RenderTerminal", func(t *testing.T) {
		out, err := RenderTerminal("# Title\n\nSome text.", 40, "notty")
		if err != nil {
			t.Fatalf("RenderTerminal failed: %v", err)
		}
		if !strings.Contains(out, "Title") || !strings.Contains(out, "Some text.") {
			t.Errorf("unexpected render:\n%s", out)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "a1")

		result, err := WriteCSVExport(testArticle(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		th.AssertFileExists(t, result.SectionsFile)
		th.AssertFileExists(t, result.MetadataFile)

		metadata := th.MustReadFile(t, result.MetadataFile)
		if !strings.Contains(metadata, `"title": "Deep Dive"`) {
			t.Errorf("metadata missing title, got: %s", metadata)
		}
		if !strings.Contains(metadata, `"sections": null`) {
			t.Errorf("metadata should omit sections, got: %s", metadata)
		}
	})

	t.Run("WriteCSVExport defaults to article ID", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		result, err := WriteCSVExport(testArticle(), "")
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}
		if result.SectionsFile != "a1_sections.csv" {
			t.Errorf("unexpected file name %s", result.SectionsFile)
		}
	})

	t.Run("WriteMarkdownExport downloads hero image", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("fake-jpeg"))
		}))
		defer server.Close()

		a := testArticle()
		a.HeroImage = server.URL + "/hero.jpg"
		dir := filepath.Join(t.TempDir(), "export")

		result, err := WriteMarkdownExport(context.Background(), a, dir, true, shared.NewLogger(io.Discard))
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		th.AssertDirExists(t, dir)
		th.AssertFileExists(t, result.HeroImage)
		if len(result.Files) != 2 {
			t.Errorf("expected 2 files, got %v", result.Files)
		}
		readme := th.MustReadFile(t, filepath.Join(dir, "README.md"))
		if !strings.Contains(readme, "![Hero](hero.jpg)") {
			t.Errorf("README should reference the local image, got:\n%s", readme)
		}
	})

	t.Run("WriteMarkdownExport continues when download fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		a := testArticle()
		a.HeroImage = server.URL + "/missing.jpg"

		var logs bytes.Buffer
		result, err := WriteMarkdownExport(context.Background(), a, t.TempDir(), true, shared.NewLogger(&logs))
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		if result.HeroImage != "" || len(result.Files) != 1 {
			t.Errorf("unexpected result %+v", result)
		}
		if out := logs.String(); !strings.Contains(out, "failed to download hero image") || !strings.Contains(out, "article=a1") {
			t.Errorf("expected a warning on the logger, got %q", out)
		}
	})

	t.Run("WriteMarkdownExport links remote image without download", func(t *testing.T) {
		a := testArticle()
		a.HeroImage = "https://cdn.example.com/hero.jpg"
		dir := t.TempDir()

		if _, err := WriteMarkdownExport(context.Background(), a, dir, false, nil); err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		readme := th.MustReadFile(t, filepath.Join(dir, "README.md"))
		if !strings.Contains(readme, "![Hero](https://cdn.example.com/hero.jpg)") {
			t.Errorf("README should link the remote image, got:\n%s", readme)
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a1.txt")
		got, err := WriteTextExport(testArticle(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		th.AssertFileExists(t, got)
	})

	t.Run("WriteTextExport invalid path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "a1.txt")
		if _, err := WriteTextExport(testArticle(), path); err == nil {
			t.Error("expected error for missing directory")
		}
	})

	t.Run("DownloadImage empty URL", func(t *testing.T) {
		if _, err := DownloadImage(context.Background(), nil, ""); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("DownloadImage read failure", func(t *testing.T) {
		client := &http.Client{Transport: th.NewMockRoundTripper(&http.Response{
			StatusCode: http.StatusOK,
			Body:       &th.FCloser{},
			Header:     http.Header{},
		}, nil)}

		if _, err := DownloadImage(context.Background(), client, "http://example.com/x.png"); err == nil {
			t.Error("expected read error")
		}
	})
}
