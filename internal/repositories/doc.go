// Package repositories implements SQLite persistence for the reader's local state.
//
// Key Implementations:
//   - [PreferenceRepository] : the key-value surface (favourite team, last viewed breaking news, language)
//   - [HistoryRepository] : reading history with sequence-ordered entries
//
// Sequence numbers provide stable ordering independent of UUIDs and clock resolution.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
