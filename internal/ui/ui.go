package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/deepdive/internal/formatter"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/services"
	"github.com/desertthunder/deepdive/internal/shared"
	"github.com/desertthunder/deepdive/internal/tasks"
	"github.com/desertthunder/deepdive/internal/theme"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FeedView ViewState = iota
	ReaderView
	NewsView
	NewsDetailView
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 6
)

// Deps are the collaborators the TUI reads from.
type Deps struct {
	Reader  *tasks.Reader
	Content services.ContentService
	Tracker *tasks.NewsTracker // optional; without it news is never marked read
	Watcher *tasks.NewsWatcher // optional; the caller runs it
	Theme   theme.Theme
	Lang    models.Language
	Style   string                 // glamour style, empty for auto
	Open    func(url string) error // defaults to [shared.OpenURL]
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	deps   Deps
	view   ViewState
	width  int
	height int

	feedList list.Model
	feed     tasks.FeedResult
	newsList list.Model
	news     []models.BreakingNews
	unread   bool

	article  *models.Article
	page     int
	detail   *models.BreakingNewsDetail
	viewport viewport.Model

	incoming    chan models.BreakingNews
	unsubscribe func()

	status  string
	err     error
	palette *Palette
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Open == nil {
		deps.Open = shared.OpenURL
	}
	if deps.Lang == "" {
		deps.Lang = models.DefaultLanguage
	}

	m := &Model{
		ctx:      ctx,
		deps:     deps,
		view:     FeedView,
		width:    defaultWidth,
		height:   defaultHeight,
		palette:  ThemePalette(deps.Theme),
		help:     help.New(),
		keys:     newKeyMap(),
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
	}
	m.feedList = m.newList("Deep Dives")
	m.newsList = m.newList("Breaking News")

	if deps.Watcher != nil {
		m.incoming = make(chan models.BreakingNews, 16)
		m.unsubscribe = deps.Watcher.Subscribe(func(n models.BreakingNews) {
			select {
			case m.incoming <- n:
			default:
			}
		})
	}
	return m
}

func (m *Model) newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), m.width-4, m.height-chromeHeight)
	l.Title = title
	l.Styles.Title = m.palette.title
	return l
}

// Close ends the news subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Err returns the error that stopped the UI, if any.
func (m *Model) Err() error { return m.err }

// Init loads the home screen and starts listening for breaking news.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadHome(), m.waitForNews())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (msg.String() == "q" && !m.filtering()) {
			m.Close()
			return m, tea.Quit
		}

		switch m.view {
		case FeedView:
			return m.handleFeedKeys(msg)
		case ReaderView:
			return m.handleReaderKeys(msg)
		case NewsView:
			return m.handleNewsKeys(msg)
		case NewsDetailView:
			return m.handleNewsDetailKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateActive(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgHomeLoaded:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		home := msg.data.(*tasks.HomeView)
		m.feed = home.Feed
		m.news = home.News
		m.unread = home.Unread
		m.status = ""
		if home.Feed.Fallback {
			m.status = "Offline: showing bundled articles"
		}
		return m, tea.Batch(
			m.feedList.SetItems(articleItems(home.Feed.Articles, m.deps.Lang)),
			m.newsList.SetItems(newsItems(home.News)),
		)

	case MsgArticleOpened:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to open article: %v", msg.err)
			return m, nil
		}
		m.article = msg.data.(*models.Article)
		m.page = 0
		m.view = ReaderView
		m.status = ""
		m.renderPage()
		return m, nil

	case MsgNewsDetailLoaded:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to load news: %v", msg.err)
			return m, nil
		}
		m.detail = msg.data.(*models.BreakingNewsDetail)
		m.view = NewsDetailView
		m.status = ""
		m.setContent(string(formatter.NewsToMarkdown(m.detail)))
		return m, nil

	case MsgNewsArrived:
		item := msg.data.(models.BreakingNews)
		m.news = append([]models.BreakingNews{item}, m.news...)
		m.status = "Breaking: " + item.Headline
		cmds := []tea.Cmd{m.newsList.SetItems(newsItems(m.news)), m.waitForNews()}
		if m.view == NewsView || m.view == NewsDetailView {
			cmds = append(cmds, m.markRead())
		} else {
			m.unread = true
		}
		return m, tea.Batch(cmds...)

	case MsgNewsMarked:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to mark news as read: %v", msg.err)
			return m, nil
		}
		m.unread = false
		return m, nil

	case MsgAudioOpened:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to open audio: %v", msg.err)
		} else {
			m.status = "Playing " + msg.data.(string)
		}
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return m.palette.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case FeedView:
		return m.renderFeed()
	case ReaderView:
		return m.renderReader()
	case NewsView:
		return m.renderNews()
	case NewsDetailView:
		return m.renderNewsDetail()
	default:
		return ""
	}
}

func (m *Model) filtering() bool {
	switch m.view {
	case FeedView:
		return m.feedList.FilterState() == list.Filtering
	case NewsView:
		return m.newsList.FilterState() == list.Filtering
	}
	return false
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.feedList.SetSize(width-4, height-chromeHeight)
	m.newsList.SetSize(width-4, height-chromeHeight)
	m.viewport.Width = width
	m.viewport.Height = height - chromeHeight
	switch m.view {
	case ReaderView:
		m.renderPage()
	case NewsDetailView:
		m.setContent(string(formatter.NewsToMarkdown(m.detail)))
	}
}

func (m *Model) handleFeedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.filtering() {
		switch {
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.feedList.SelectedItem().(articleItem); ok {
				return m, m.openArticle(item.article.RawID)
			}
			return m, nil
		case key.Matches(msg, m.keys.news):
			m.view = NewsView
			return m, m.markRead()
		case key.Matches(msg, m.keys.refresh):
			return m, m.loadHome()
		}
	}

	var cmd tea.Cmd
	m.feedList, cmd = m.feedList.Update(msg)
	return m, cmd
}

func (m *Model) handleReaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = FeedView
		return m, nil
	case key.Matches(msg, m.keys.next):
		if m.page < len(m.article.Sections)-1 {
			m.page++
			m.renderPage()
		}
		return m, nil
	case key.Matches(msg, m.keys.prev):
		if m.page > 0 {
			m.page--
			m.renderPage()
		}
		return m, nil
	case key.Matches(msg, m.keys.audio):
		return m, m.openAudio(m.article.AudioFile)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleNewsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.filtering() {
		switch {
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.newsList.SelectedItem().(newsItem); ok {
				return m, m.loadNewsDetail(item.news.ID)
			}
			return m, nil
		case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.news):
			m.view = FeedView
			return m, nil
		case key.Matches(msg, m.keys.refresh):
			return m, m.loadHome()
		}
	}

	var cmd tea.Cmd
	m.newsList, cmd = m.newsList.Update(msg)
	return m, cmd
}

func (m *Model) handleNewsDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) {
		m.view = NewsView
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case FeedView:
		m.feedList, cmd = m.feedList.Update(msg)
	case NewsView:
		m.newsList, cmd = m.newsList.Update(msg)
	case ReaderView, NewsDetailView:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadHome() tea.Cmd {
	return func() tea.Msg {
		return homeLoadedMsg(m.deps.Reader.Home(m.ctx, m.deps.Lang))
	}
}

func (m *Model) openArticle(id string) tea.Cmd {
	return func() tea.Msg {
		return articleOpenedMsg(m.deps.Reader.Open(m.ctx, id))
	}
}

func (m *Model) loadNewsDetail(id string) tea.Cmd {
	return func() tea.Msg {
		return newsDetailLoadedMsg(m.deps.Content.GetBreakingNewsDetail(m.ctx, id))
	}
}

func (m *Model) markRead() tea.Cmd {
	if m.deps.Tracker == nil {
		return nil
	}
	news := append([]models.BreakingNews(nil), m.news...)
	return func() tea.Msg {
		return newsMarkedMsg(m.deps.Tracker.MarkRead(m.ctx, news))
	}
}

func (m *Model) openAudio(url string) tea.Cmd {
	if url == "" {
		m.status = "This article has no narration"
		return nil
	}
	return func() tea.Msg {
		return audioOpenedMsg(url, m.deps.Open(url))
	}
}

func (m *Model) waitForNews() tea.Cmd {
	if m.incoming == nil {
		return nil
	}
	ch := m.incoming
	return func() tea.Msg {
		select {
		case n := <-ch:
			return newsArrivedMsg(n)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// renderPage renders the current section into the viewport.
func (m *Model) renderPage() {
	if m.article == nil {
		return
	}
	md, err := formatter.SectionPage(m.article, m.page)
	if err != nil {
		md = fmt.Sprintf("# %s\n\n_No sections._\n", m.article.Title)
	}
	m.setContent(md)
}

func (m *Model) setContent(md string) {
	out, err := formatter.RenderTerminal(md, max(20, m.width-2), m.deps.Style)
	if err != nil {
		out = md
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

func (m *Model) tabs() string {
	feed := "Deep Dives"
	news := "Breaking News"
	if m.unread {
		news += " " + m.palette.badge.Render("●")
	}
	if m.view == NewsView || m.view == NewsDetailView {
		return m.palette.help.Render(feed) + "  " + m.palette.header.Render(news)
	}
	return m.palette.header.Render(feed) + "  " + m.palette.help.Render(news)
}

func (m *Model) footer(bindings ...key.Binding) string {
	var b strings.Builder
	if m.status != "" {
		b.WriteString(m.palette.warn.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(bindings))
	return b.String()
}

func (m *Model) renderFeed() string {
	foot := m.footer(m.keys.enter, m.keys.news, m.keys.refresh, m.keys.quit)
	return fmt.Sprintf("%s\n\n%s\n\n%s", m.tabs(), m.feedList.View(), foot)
}

func (m *Model) renderReader() string {
	total := len(m.article.Sections)
	page := fmt.Sprintf("%d/%d", min(m.page+1, total), total)
	headline := ""
	if total > 0 {
		headline = m.article.Sections[m.page].Headline
	}
	title := m.palette.title.Render(m.article.Title)
	sub := m.palette.help.Render(fmt.Sprintf("%s · %s", page, headline))

	bindings := []key.Binding{m.keys.next, m.keys.prev, m.keys.back, m.keys.quit}
	if m.article.AudioFile != "" {
		bindings = append([]key.Binding{m.keys.audio}, bindings...)
	}
	return fmt.Sprintf("%s %s\n\n%s\n%s", title, sub, m.viewport.View(), m.footer(bindings...))
}

func (m *Model) renderNews() string {
	foot := m.footer(m.keys.enter, m.keys.back, m.keys.refresh, m.keys.quit)
	return fmt.Sprintf("%s\n\n%s\n\n%s", m.tabs(), m.newsList.View(), foot)
}

func (m *Model) renderNewsDetail() string {
	return fmt.Sprintf("%s\n\n%s\n%s", m.tabs(), m.viewport.View(), m.footer(m.keys.back, m.keys.quit))
}
