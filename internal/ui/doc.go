// Package ui implements an interactive terminal reader using bubbletea's Elm architecture.
//
// The TUI has four views:
//  1. [FeedView] : Browse the deep-dive feed; a badge marks unread breaking news
//  2. [ReaderView] : Read an article one section per page (n/p to turn pages, a for narration audio)
//  3. [NewsView] : Breaking news list; opening it marks the news as read
//  4. [NewsDetailView] : A single breaking news item
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the [Msg] union type.
// New breaking news arrives through a [tasks.NewsWatcher] subscription and is delivered as a message, so the
// screen updates without polling from the UI goroutine.
//
// Colours come from the favourite team's [theme.Theme]. Keyboard navigation uses vim-style bindings
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
