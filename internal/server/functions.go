package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/services"
)

// FunctionsPrefix is the path every query handler is served under.
const FunctionsPrefix = "/functions/v1/"

// maxBodyBytes bounds request bodies; queries only carry a few ids.
const maxBodyBytes = 1 << 16

var (
	errMissingID        = errors.New("Missing ID parameter")
	errMissingArticleID = errors.New("Missing article_id parameter")
)

// functionRequest is the union of the bodies the query handlers accept.
type functionRequest struct {
	LanguageCode string `json:"language_code"`
	ArticleID    string `json:"article_id"`
	ID           string `json:"id"`
}

func (r functionRequest) language() models.Language {
	return models.Language(strings.ToLower(strings.TrimSpace(r.LanguageCode)))
}

type function struct {
	bodyOptional   bool // a missing or malformed body is treated as empty
	upstreamStatus int  // written for backend failures; 400 when zero
	run            func(ctx context.Context, svc services.ContentService, req functionRequest) (any, error)
}

var functions = map[string]function{
	services.FnAllDeepDives: {run: func(ctx context.Context, svc services.ContentService, req functionRequest) (any, error) {
		return svc.ListDeepDives(ctx, req.language())
	}},
	services.FnArticleViewerData: {run: func(ctx context.Context, svc services.ContentService, req functionRequest) (any, error) {
		if strings.TrimSpace(req.ArticleID) == "" {
			return nil, errMissingArticleID
		}
		return svc.GetDeepDive(ctx, req.ArticleID)
	}},
	services.FnBreakingNews: {run: func(ctx context.Context, svc services.ContentService, req functionRequest) (any, error) {
		return svc.ListBreakingNews(ctx, req.language())
	}},
	services.FnBreakingNewsDetail: {run: func(ctx context.Context, svc services.ContentService, req functionRequest) (any, error) {
		if strings.TrimSpace(req.ID) == "" {
			return nil, errMissingID
		}
		return svc.GetBreakingNewsDetail(ctx, req.ID)
	}},
	services.FnRadioNews: {upstreamStatus: http.StatusInternalServerError, run: func(ctx context.Context, svc services.ContentService, req functionRequest) (any, error) {
		return svc.ListRadioNews(ctx, req.language())
	}},
	services.FnRadioDeepDives: {bodyOptional: true, run: func(ctx context.Context, svc services.ContentService, req functionRequest) (any, error) {
		return svc.ListRadioDeepDives(ctx, req.language())
	}},
	services.FnAllTeams: {bodyOptional: true, run: func(ctx context.Context, svc services.ContentService, req functionRequest) (any, error) {
		return svc.ListTeams(ctx)
	}},
}

// FunctionsHandler serves the named content queries.
type FunctionsHandler struct {
	content services.ContentService
	logger  *log.Logger
}

// NewFunctionsHandler creates a [FunctionsHandler] backed by content.
func NewFunctionsHandler(content services.ContentService, logger *log.Logger) *FunctionsHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &FunctionsHandler{content: content, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *FunctionsHandler) Routes() []string {
	return []string{FunctionsPrefix}
}

// ServeHTTP dispatches POST /functions/v1/{name}.
func (h *FunctionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Write([]byte("ok"))
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, FunctionsPrefix), "/")
	fn, ok := functions[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("function %q not found", name))
		return
	}

	req, err := decodeRequest(r.Body)
	if err != nil && !fn.bodyOptional {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := fn.run(r.Context(), h.contentFor(r), req)
	if err != nil {
		status := http.StatusBadRequest
		if fn.upstreamStatus != 0 && !errors.Is(err, errMissingID) && !errors.Is(err, errMissingArticleID) {
			status = fn.upstreamStatus
		}
		h.logger.Warn("query failed", "function", name, "status", status, "error", err, "request_id", RequestIDFrom(r.Context()))
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// contentFor scopes the content service to the caller's credentials when it supports that.
func (h *FunctionsHandler) contentFor(r *http.Request) services.ContentService {
	header := r.Header.Get("Authorization")
	if header == "" {
		return h.content
	}
	if a, ok := h.content.(services.Authorizer); ok {
		return a.WithAuthorization(header)
	}
	return h.content
}

func decodeRequest(body io.Reader) (functionRequest, error) {
	var req functionRequest
	data, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return req, fmt.Errorf("failed to read request body: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return functionRequest{}, fmt.Errorf("invalid JSON body: %w", err)
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
