package tasks

import (
	"fmt"

	"github.com/desertthunder/deepdive/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchArticle Phase = iota
	ParseSections
	ExportedArticle
	ExportFailed
)

func (p Phase) String() string {
	switch p {
	case FetchArticle:
		return "fetch_article"
	case ParseSections:
		return "parse_sections"
	case ExportedArticle:
		return "export_article"
	case ExportFailed:
		return "export_failed"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchArticleUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchArticle,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching article %s", id),
		Data:    id,
	}
}

func parseSectionsUpdate(step, total int, a *models.Article) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseSections,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Parsed %d sections of %q", len(a.Sections), a.Title),
		Data:    len(a.Sections),
	}
}

func exportCompletedUpdate(step, total int, title, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportedArticle,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exported %q to %s", title, path),
		Data:    path,
	}
}

func exportFailedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed to export %s: %v", id, err),
		Data:    err,
	}
}
