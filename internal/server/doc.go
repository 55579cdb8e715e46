// Package server exposes the content query handlers over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Query Handlers
//
// [FunctionsHandler] serves POST /functions/v1/{name} for the client's named queries
// (get-all-deepdives, get-article-viewer-data, get-breaking-news, get-breaking-news-detail,
// get-radio-news, get-radio-deepdives and get-all-teams). Each reads an optional JSON body,
// runs the query against a [services.ContentService] and writes the JSON result. Failures are
// written as {"error": "..."}.
//
// The caller's Authorization header is forwarded to the backend when the content service
// implements [services.Authorizer], so row level security applies to the caller and not the server.
//
// # Middleware
//
// [CORS] answers preflight requests and allows the headers the client sends. [Logging] records
// method, path, status and duration. [RateLimiter] limits requests per client address
// with a token bucket. [RequestID] tags each request for log correlation.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
