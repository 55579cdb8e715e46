// Package services defines the [ContentService] interface the reader consumes and implements it against the hosted backend.
//
// # Content Service Interface
//
// Every data source returns the explicit schemas in the models package, so callers never handle untyped JSON.
//
// # Functions Implementation
//
// [FunctionsService] invokes the hosted query functions with POST {base}/functions/v1/{name}.
// The anon key is sent as the apikey header and, unless a caller token is supplied, as the bearer token.
//
// # Direct Implementation
//
// [DirectService] implements the same queries itself over the PostgREST API using [RestClient].
// It backs the local query server, which mirrors the hosted functions route for route.
//
// Query semantics:
//   - deep dives are ordered by published_at descending, filtered by language when given
//   - breaking news covers the last 48 hours and is enriched with player headshots in one "in" query
//   - radio news is capped at 30 rows; radio deep dives default to English and require audio
//   - relative storage paths are resolved to public object URLs with [StorageURL]
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrAPIRequest] : non-2xx response, message taken from the error body
//   - [shared.ErrArticleNotFound] : deep dive id not found
//   - [shared.ErrNewsNotFound] : breaking news id not found
//   - [shared.ErrMissingArgument] : required id missing
package services
