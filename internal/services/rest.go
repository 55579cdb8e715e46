package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/deepdive/internal/shared"
)

// RestClient reads tables through the PostgREST API of a project.
type RestClient struct {
	baseURL       string
	apiKey        string
	authorization string
	schema        string
	httpClient    *http.Client
}

// NewRestClient creates a client for {url}/rest/v1 using the anon key from cfg.
func NewRestClient(cfg shared.SupabaseConfig, client *http.Client) *RestClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &RestClient{
		baseURL:       strings.TrimRight(cfg.URL, "/") + "/rest/v1",
		apiKey:        cfg.AnonKey,
		authorization: "Bearer " + cfg.AnonKey,
		schema:        cfg.Schema,
		httpClient:    client,
	}
}

// WithAuthorization returns a copy that sends header as the Authorization value.
//
// An empty header keeps the anon key.
func (c *RestClient) WithAuthorization(header string) *RestClient {
	cp := *c
	if header = strings.TrimSpace(header); header != "" {
		cp.authorization = header
	}
	return &cp
}

// From starts a query on table in the client's default schema.
func (c *RestClient) From(table string) *Query {
	return &Query{
		client: c,
		table:  table,
		schema: c.schema,
		params: url.Values{},
	}
}

// Query builds a PostgREST read request.
type Query struct {
	client *RestClient
	table  string
	schema string
	params url.Values
	single bool
}

// Schema overrides the schema the table is read from. "public" and "" use the default profile.
func (q *Query) Schema(s string) *Query {
	q.schema = s
	return q
}

// Select lists the columns to return, including embedded resources such as "article_images(image_url)".
func (q *Query) Select(columns ...string) *Query {
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, strings.TrimSpace(c))
	}
	q.params.Set("select", strings.Join(cols, ","))
	return q
}

// Eq filters rows where column equals value.
func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

// Gt filters rows where column is greater than value.
func (q *Query) Gt(column, value string) *Query {
	q.params.Add(column, "gt."+value)
	return q
}

// In filters rows where column is one of values.
func (q *Query) In(column string, values []string) *Query {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quoteListValue(v)
	}
	q.params.Add(column, "in.("+strings.Join(quoted, ",")+")")
	return q
}

// NotNull filters rows where column is set.
func (q *Query) NotNull(column string) *Query {
	q.params.Add(column, "not.is.null")
	return q
}

// Order sorts by column.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.params.Set("order", column+"."+dir)
	return q
}

// Limit caps the number of rows.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Single requests exactly one row, decoded as an object instead of an array.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// URL returns the request URL the query will fetch.
func (q *Query) URL() string {
	u := q.client.baseURL + "/" + q.table
	if encoded := q.params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// Execute runs the query and decodes the response into result.
//
// A single-row query that matches nothing returns [shared.ErrNotFound].
func (q *Query) Execute(ctx context.Context, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.URL(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if q.client.apiKey != "" {
		req.Header.Set("apikey", q.client.apiKey)
	}
	if q.client.authorization != "" && q.client.authorization != "Bearer " {
		req.Header.Set("Authorization", q.client.authorization)
	}
	if q.schema != "" && q.schema != "public" {
		req.Header.Set("Accept-Profile", q.schema)
	}
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	} else {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := q.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details string `json:"details"`
		}
		decodeErr := json.NewDecoder(resp.Body).Decode(&errResp)

		// PGRST116: the single-object request matched no rows.
		if q.single && (resp.StatusCode == http.StatusNotAcceptable || errResp.Code == "PGRST116") {
			return fmt.Errorf("%w: %s", shared.ErrNotFound, q.table)
		}
		if decodeErr == nil && errResp.Message != "" {
			return fmt.Errorf("%w (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Message)
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

func quoteListValue(v string) string {
	if strings.ContainsAny(v, `,()" `) {
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return v
}
