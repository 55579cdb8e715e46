package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
	err  error
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgHomeLoaded MsgKind = iota
	MsgArticleOpened
	MsgNewsDetailLoaded
	MsgNewsArrived
	MsgNewsMarked
	MsgAudioOpened
)

// homeLoadedMsg is the constructor for [MsgHomeLoaded]
func homeLoadedMsg(view *tasks.HomeView, err error) Msg {
	return Msg{kind: MsgHomeLoaded, data: view, err: err}
}

// articleOpenedMsg is the constructor for [MsgArticleOpened]
func articleOpenedMsg(article *models.Article, err error) Msg {
	return Msg{kind: MsgArticleOpened, data: article, err: err}
}

// newsDetailLoadedMsg is the constructor for [MsgNewsDetailLoaded]
func newsDetailLoadedMsg(detail *models.BreakingNewsDetail, err error) Msg {
	return Msg{kind: MsgNewsDetailLoaded, data: detail, err: err}
}

// newsArrivedMsg is the constructor for [MsgNewsArrived]
func newsArrivedMsg(item models.BreakingNews) Msg {
	return Msg{kind: MsgNewsArrived, data: item}
}

// newsMarkedMsg is the constructor for [MsgNewsMarked]
func newsMarkedMsg(err error) Msg {
	return Msg{kind: MsgNewsMarked, err: err}
}

// audioOpenedMsg is the constructor for [MsgAudioOpened]
func audioOpenedMsg(url string, err error) Msg {
	return Msg{kind: MsgAudioOpened, data: url, err: err}
}
