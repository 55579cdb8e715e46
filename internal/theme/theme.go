package theme

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/desertthunder/deepdive/internal/shared"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColor is the brand colour used when no team logo is available.
const DefaultColor = "#0f3d2e"

const (
	strongShift = -20
	appBgMix    = 0.85
	navBgMix    = 0.75

	// maxSamples bounds the pixels read from large logos.
	maxSamples = 1 << 16
)

// Theme is a brand colour and the variants derived from it.
type Theme struct {
	Brand         color.RGBA
	BrandStrong   color.RGBA
	AppBackground color.RGBA
	NavBackground color.RGBA
	LogoURL       string
}

// Variable is a single CSS custom property.
type Variable struct {
	Name  string
	Value string
}

// NewTheme derives a theme from c. An empty logoURL omits --team-logo-url.
func NewTheme(c color.RGBA, logoURL string) Theme {
	c.A = 0xff
	return Theme{
		Brand:         c,
		BrandStrong:   Shift(c, strongShift),
		AppBackground: MixWhite(c, appBgMix),
		NavBackground: MixWhite(c, navBgMix),
		LogoURL:       logoURL,
	}
}

// DefaultTheme is the theme used without a favourite team.
func DefaultTheme() Theme {
	c, _ := ParseHex(DefaultColor)
	return NewTheme(c, "")
}

// FromHex builds a theme from a hex colour, falling back to [DefaultTheme] for invalid input.
func FromHex(hex string) Theme {
	c, err := ParseHex(hex)
	if err != nil {
		return DefaultTheme()
	}
	return NewTheme(c, "")
}

// CSSVariables returns the custom properties in a stable order.
func (t Theme) CSSVariables() []Variable {
	vars := []Variable{
		{"--brand", RGB(t.Brand)},
		{"--brand-strong", RGB(t.BrandStrong)},
		{"--app-bg", RGB(t.AppBackground)},
		{"--nav-bg", RGB(t.NavBackground)},
	}
	if t.LogoURL != "" {
		vars = append(vars, Variable{"--team-logo-url", fmt.Sprintf("url('%s')", t.LogoURL)})
	}
	return vars
}

// CSS renders the variables as a :root rule.
func (t Theme) CSS() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range t.CSSVariables() {
		fmt.Fprintf(&b, "  %s: %s;\n", v.Name, v.Value)
	}
	b.WriteString("}\n")
	return b.String()
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: colour %q", shared.ErrInvalidArgument, s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 0xff}, nil
}

// RGB formats c as "rgb(r, g, b)".
func RGB(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return toColorful(c).Hex()
}

// Shift adds amount to each channel, clamped to [0, 255].
func Shift(c color.RGBA, amount int) color.RGBA {
	return color.RGBA{clamp(int(c.R) + amount), clamp(int(c.G) + amount), clamp(int(c.B) + amount), c.A}
}

// MixWhite blends c towards white; amount 0 keeps c, 1 is white.
func MixWhite(c color.RGBA, amount float64) color.RGBA {
	white := colorful.Color{R: 1, G: 1, B: 1}
	r, g, b := toColorful(c).BlendRgb(white, amount).Clamped().RGB255()
	return color.RGBA{r, g, b, c.A}
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func clamp(v int) uint8 {
	return uint8(max(0, min(255, v)))
}

// Extract returns the dominant colour of img.
//
// Pixels are quantised to 5 bits per channel; the most populous bucket is averaged.
// Mostly transparent and near-white pixels are ignored. ok is false when no pixel qualifies.
func Extract(img image.Image) (c color.RGBA, ok bool) {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return color.RGBA{}, false
	}
	step := max(1, total/maxSamples)

	type bucket struct {
		count   int
		r, g, b int
	}
	buckets := map[int]*bucket{}

	for i := 0; i < total; i += step {
		x := bounds.Min.X + i%bounds.Dx()
		y := bounds.Min.Y + i/bounds.Dx()

		px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		if px.A < 125 {
			continue
		}
		if px.R > 250 && px.G > 250 && px.B > 250 {
			continue
		}

		key := int(px.R>>3)<<10 | int(px.G>>3)<<5 | int(px.B>>3)
		bk, exists := buckets[key]
		if !exists {
			bk = &bucket{}
			buckets[key] = bk
		}
		bk.count++
		bk.r += int(px.R)
		bk.g += int(px.G)
		bk.b += int(px.B)
	}

	bestKey := -1
	var best *bucket
	for key, bk := range buckets {
		if best == nil || bk.count > best.count || (bk.count == best.count && key < bestKey) {
			bestKey, best = key, bk
		}
	}
	if best == nil {
		return color.RGBA{}, false
	}

	return color.RGBA{
		R: uint8((best.r + best.count/2) / best.count),
		G: uint8((best.g + best.count/2) / best.count),
		B: uint8((best.b + best.count/2) / best.count),
		A: 0xff,
	}, true
}
