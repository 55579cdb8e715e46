package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/deepdive/internal/theme"
)

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	header lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	badge  lipgloss.Style
}

var _ Painter = (*Palette)(nil)

// NewPalette builds a palette from a brand colour and the success, error, warning and help colours.
func NewPalette(brand, s, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold("#ffffff").Background(lipgloss.Color(brand)).Padding(0, 1),
		header: NewBold(brand),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		badge:  NewBold(e),
	}
}

// ThemePalette colours the UI with the team theme. Text on the brand colour uses the darker variant
// so light team colours stay readable.
func ThemePalette(t theme.Theme) *Palette {
	p := NewPalette(theme.Hex(t.BrandStrong), "#04B575", "#FF0000", "#FFA500", "#626262")
	p.header = NewBold(theme.Hex(t.Brand))
	return p
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
