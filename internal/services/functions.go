package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/shared"
)

// FunctionsService implements [ContentService] by invoking the hosted query functions.
type FunctionsService struct {
	baseURL    string
	apiKey     string
	token      string
	httpClient *http.Client
}

// NewFunctionsService creates a client for the functions endpoint of cfg.
func NewFunctionsService(cfg shared.SupabaseConfig, client *http.Client) *FunctionsService {
	if client == nil {
		client = http.DefaultClient
	}
	return &FunctionsService{
		baseURL:    cfg.FunctionsBaseURL(),
		apiKey:     cfg.AnonKey,
		token:      cfg.AnonKey,
		httpClient: client,
	}
}

func (f *FunctionsService) Name() string {
	return "functions"
}

// WithAuthorization returns a copy that forwards header as the Authorization value.
func (f *FunctionsService) WithAuthorization(header string) ContentService {
	c := *f
	c.token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return &c
}

// Invoke POSTs body as JSON to the named function and decodes the response into result.
func (f *FunctionsService) Invoke(ctx context.Context, name string, body, result any) error {
	return f.doRequest(ctx, http.MethodPost, "/"+name, body, result)
}

func (f *FunctionsService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		req.Header.Set("apikey", f.apiKey)
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			if msg := shared.FirstNonEmpty(errResp.Error, errResp.Message); msg != "" {
				return fmt.Errorf("%w (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, msg)
			}
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

type languageBody struct {
	LanguageCode string `json:"language_code,omitempty"`
}

func (f *FunctionsService) ListDeepDives(ctx context.Context, lang models.Language) ([]models.RawArticle, error) {
	var articles []models.RawArticle
	if err := f.Invoke(ctx, FnAllDeepDives, languageBody{lang.String()}, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (f *FunctionsService) GetDeepDive(ctx context.Context, id string) (*models.RawArticle, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: article id", shared.ErrMissingArgument)
	}

	var article models.RawArticle
	body := map[string]string{"article_id": id}
	if err := f.Invoke(ctx, FnArticleViewerData, body, &article); err != nil {
		return nil, err
	}
	if article.RawID == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrArticleNotFound, id)
	}
	return &article, nil
}

func (f *FunctionsService) ListBreakingNews(ctx context.Context, lang models.Language) ([]models.BreakingNews, error) {
	var news []models.BreakingNews
	if err := f.Invoke(ctx, FnBreakingNews, languageBody{lang.String()}, &news); err != nil {
		return nil, err
	}
	return news, nil
}

func (f *FunctionsService) GetBreakingNewsDetail(ctx context.Context, id string) (*models.BreakingNewsDetail, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: news id", shared.ErrMissingArgument)
	}

	var detail models.BreakingNewsDetail
	if err := f.Invoke(ctx, FnBreakingNewsDetail, map[string]string{"id": id}, &detail); err != nil {
		return nil, err
	}
	if detail.ID == "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrNewsNotFound, id)
	}
	return &detail, nil
}

func (f *FunctionsService) ListRadioNews(ctx context.Context, lang models.Language) ([]models.RadioNews, error) {
	var items []models.RadioNews
	if err := f.Invoke(ctx, FnRadioNews, languageBody{lang.String()}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (f *FunctionsService) ListRadioDeepDives(ctx context.Context, lang models.Language) ([]models.RadioDeepDive, error) {
	var items []models.RadioDeepDive
	if err := f.Invoke(ctx, FnRadioDeepDives, languageBody{lang.String()}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (f *FunctionsService) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := f.Invoke(ctx, FnAllTeams, nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}
