// Package tasks orchestrates the reader's operations on top of the content services.
//
// [Reader] fetches the deep-dive feed (falling back to a bundled feed when the backend is unreachable),
// opens articles by running their raw sections through the section parser, and records what was read.
//
// [NewsTracker] keeps the breaking-news unread indicator in a key-value store, [NewsWatcher] polls for new
// breaking news and fans it out to subscribers, and [BulkExport] writes many articles to disk with a rate
// limited worker pool.
//
// Long-running operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks
