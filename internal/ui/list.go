package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/tasks"
)

var (
	_ list.Item = articleItem{}
	_ list.Item = newsItem{}
)

// articleItem wraps [models.RawArticle] to implement [list.Item].
type articleItem struct {
	article models.RawArticle
	lang    models.Language
}

func (i articleItem) FilterValue() string { return i.article.Title }
func (i articleItem) Title() string       { return i.article.Title }
func (i articleItem) Description() string {
	parts := []string{}
	if i.article.Author != "" {
		parts = append(parts, i.article.Author)
	}
	if date := tasks.FormatDate(i.article.Published(), i.lang); date != "" {
		parts = append(parts, date)
	}
	if i.article.HasAudio() {
		parts = append(parts, "♪")
	}
	return strings.Join(parts, " • ")
}

// newsItem wraps [models.BreakingNews] to implement [list.Item].
type newsItem struct {
	news models.BreakingNews
}

func (i newsItem) FilterValue() string { return i.news.Headline }
func (i newsItem) Title() string       { return i.news.Headline }
func (i newsItem) Description() string {
	desc := i.news.SubHeader
	if !i.news.CreatedAt.IsZero() {
		stamp := i.news.CreatedAt.Local().Format("02.01. 15:04")
		if desc == "" {
			return stamp
		}
		desc = stamp + " • " + desc
	}
	return desc
}

func articleItems(articles []models.RawArticle, lang models.Language) []list.Item {
	items := make([]list.Item, len(articles))
	for i, a := range articles {
		items[i] = articleItem{article: a, lang: lang}
	}
	return items
}

func newsItems(news []models.BreakingNews) []list.Item {
	items := make([]list.Item, len(news))
	for i, n := range news {
		items[i] = newsItem{news: n}
	}
	return items
}
