package services

import (
	"context"
	"strings"

	"github.com/desertthunder/deepdive/internal/models"
)

// Names of the hosted query functions.
const (
	FnAllDeepDives       = "get-all-deepdives"
	FnArticleViewerData  = "get-article-viewer-data"
	FnBreakingNews       = "get-breaking-news"
	FnBreakingNewsDetail = "get-breaking-news-detail"
	FnRadioNews          = "get-radio-news"
	FnRadioDeepDives     = "get-radio-deepdives"
	FnAllTeams           = "get-all-teams"
)

// FunctionNames lists every query function in the order they are documented.
var FunctionNames = []string{
	FnAllDeepDives,
	FnArticleViewerData,
	FnBreakingNews,
	FnBreakingNewsDetail,
	FnRadioNews,
	FnRadioDeepDives,
	FnAllTeams,
}

// ContentService defines the read side of the content backend.
type ContentService interface {
	// ListDeepDives returns deep-dive metadata, newest first. An empty language returns all languages.
	ListDeepDives(ctx context.Context, lang models.Language) ([]models.RawArticle, error)

	// GetDeepDive returns a single deep dive including its raw sections.
	GetDeepDive(ctx context.Context, id string) (*models.RawArticle, error)

	// ListBreakingNews returns news updates from the last 48 hours, newest first.
	ListBreakingNews(ctx context.Context, lang models.Language) ([]models.BreakingNews, error)

	// GetBreakingNewsDetail returns the full body of one news update.
	GetBreakingNewsDetail(ctx context.Context, id string) (*models.BreakingNewsDetail, error)

	// ListRadioNews returns the latest news updates with their narration tracks.
	ListRadioNews(ctx context.Context, lang models.Language) ([]models.RadioNews, error)

	// ListRadioDeepDives returns deep dives that have narration audio.
	ListRadioDeepDives(ctx context.Context, lang models.Language) ([]models.RadioDeepDive, error)

	// ListTeams returns the team catalogue.
	ListTeams(ctx context.Context) ([]models.Team, error)

	// Name returns the name of the data source
	Name() string
}

// Authorizer is implemented by services that can act with a caller's credentials.
type Authorizer interface {
	WithAuthorization(header string) ContentService
}

// DefaultBucket is the storage bucket content assets are published in.
const DefaultBucket = "content"

// StorageURL resolves a storage path in the content bucket against the project URL.
//
// Absolute http(s) URLs are returned unchanged and an empty path stays empty.
func StorageURL(base, path string) string {
	return PublicObjectURL(base, DefaultBucket, path)
}

// PublicObjectURL resolves path to the public object URL in bucket.
func PublicObjectURL(base, bucket, path string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	if bucket == "" {
		bucket = DefaultBucket
	}
	return strings.TrimRight(base, "/") + "/storage/v1/object/public/" + bucket + "/" + strings.TrimLeft(path, "/")
}
