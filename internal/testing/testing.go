// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/shared"
)

// MockContentService is a test double for services.ContentService.
//
// Each field is returned by the matching method; Err, when set, is returned by every method.
type MockContentService struct {
	mu sync.Mutex

	DeepDives      []models.RawArticle
	Articles       map[string]*models.RawArticle
	BreakingNews   []models.BreakingNews
	NewsDetails    map[string]*models.BreakingNewsDetail
	RadioNews      []models.RadioNews
	RadioDeepDives []models.RadioDeepDive
	Teams          []models.Team
	Err            error

	Calls []string
}

func (m *MockContentService) record(call string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
	return m.Err
}

// SetBreakingNews replaces the news list while other goroutines may be reading it.
func (m *MockContentService) SetBreakingNews(news []models.BreakingNews) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BreakingNews = news
}

// CallCount returns how many times method was called.
func (m *MockContentService) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == method {
			n++
		}
	}
	return n
}

func (m *MockContentService) ListDeepDives(ctx context.Context, lang models.Language) ([]models.RawArticle, error) {
	if err := m.record("ListDeepDives"); err != nil {
		return nil, err
	}
	return m.DeepDives, nil
}

func (m *MockContentService) GetDeepDive(ctx context.Context, id string) (*models.RawArticle, error) {
	if err := m.record("GetDeepDive"); err != nil {
		return nil, err
	}
	a, ok := m.Articles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrArticleNotFound, id)
	}
	return a, nil
}

func (m *MockContentService) ListBreakingNews(ctx context.Context, lang models.Language) ([]models.BreakingNews, error) {
	if err := m.record("ListBreakingNews"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.BreakingNews(nil), m.BreakingNews...), nil
}

func (m *MockContentService) GetBreakingNewsDetail(ctx context.Context, id string) (*models.BreakingNewsDetail, error) {
	if err := m.record("GetBreakingNewsDetail"); err != nil {
		return nil, err
	}
	d, ok := m.NewsDetails[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrNewsNotFound, id)
	}
	return d, nil
}

func (m *MockContentService) ListRadioNews(ctx context.Context, lang models.Language) ([]models.RadioNews, error) {
	if err := m.record("ListRadioNews"); err != nil {
		return nil, err
	}
	return m.RadioNews, nil
}

func (m *MockContentService) ListRadioDeepDives(ctx context.Context, lang models.Language) ([]models.RadioDeepDive, error) {
	if err := m.record("ListRadioDeepDives"); err != nil {
		return nil, err
	}
	return m.RadioDeepDives, nil
}

func (m *MockContentService) ListTeams(ctx context.Context) ([]models.Team, error) {
	if err := m.record("ListTeams"); err != nil {
		return nil, err
	}
	return m.Teams, nil
}

func (m *MockContentService) Name() string { return "mock" }

// MemoryStore is an in-memory key-value store returning [shared.ErrNotFound] for missing keys.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrNotFound, key)
	}
	return v, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
