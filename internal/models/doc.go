// Package models defines the wire schemas and domain entities of the deep-dive reader.
//
// The package contains two categories of types:
//
// 1. Boundary schemas: explicit shapes for every response the content API returns
//   - [RawArticle] : a deep-dive row as stored, with its raw section map
//   - [BreakingNews], [BreakingNewsDetail] : news updates from the last 48 hours
//   - [RadioNews], [RadioDeepDive] : items that carry narration audio
//   - [Team], [Player] : catalogue data used for theming and enrichment
//
// 2. Derived and persistent entities
//   - [Article], [Section] : the render-ready article produced by the section parser
//   - [Preference] : a key-value entry in the local preference store
//   - [ReadEntry] : one row of reading history
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
package models
