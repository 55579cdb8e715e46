package theme

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/deepdive/internal/formatter"
	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/shared"
	_ "golang.org/x/image/webp"
)

// Store is the preference surface the favourite team is kept in.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Loader builds themes from team logos.
type Loader struct {
	client   *http.Client
	fallback Theme
	logger   *log.Logger
}

// NewLoader creates a [Loader]. fallbackHex is used when a logo cannot be read; an invalid value
// falls back to [DefaultColor].
func NewLoader(client *http.Client, fallbackHex string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{client: client, fallback: FromHex(fallbackHex), logger: logger}
}

// Fallback returns the theme used when no logo is available.
func (l *Loader) Fallback() Theme { return l.fallback }

// ForTeam downloads the team's logo and derives a theme from it.
// Any failure yields the fallback theme.
func (l *Loader) ForTeam(ctx context.Context, team *models.Team) Theme {
	if team == nil || team.LogoURL == "" {
		return l.fallback
	}

	c, err := l.logoColor(ctx, team.LogoURL)
	if err != nil {
		l.logger.Warn("failed to extract team colour", "team", team.Name, "error", err)
		return l.fallback
	}
	return NewTheme(c, team.LogoURL)
}

func (l *Loader) logoColor(ctx context.Context, url string) (c color.RGBA, err error) {
	data, err := formatter.DownloadImage(ctx, l.client, url)
	if err != nil {
		return c, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return c, fmt.Errorf("failed to decode logo: %w", err)
	}

	c, ok := Extract(img)
	if !ok {
		return c, fmt.Errorf("%w: %s logo has no opaque colour", shared.ErrInvalidInput, format)
	}
	return c, nil
}

// FavoriteTeam reads the stored favourite team. It returns nil without error when none is set.
func FavoriteTeam(ctx context.Context, store Store) (*models.Team, error) {
	value, err := store.Get(ctx, models.PreferenceFavoriteTeam)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read favourite team: %w", err)
	}

	var team models.Team
	if err := json.Unmarshal([]byte(value), &team); err != nil {
		return nil, fmt.Errorf("%w: stored favourite team: %v", shared.ErrInvalidInput, err)
	}
	return &team, nil
}

// SetFavoriteTeam stores team as JSON.
func SetFavoriteTeam(ctx context.Context, store Store, team models.Team) error {
	if err := team.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("failed to encode team: %w", err)
	}
	return store.Set(ctx, models.PreferenceFavoriteTeam, string(data))
}

// ClearFavoriteTeam removes the stored favourite team.
func ClearFavoriteTeam(ctx context.Context, store Store) error {
	return store.Delete(ctx, models.PreferenceFavoriteTeam)
}

// Current loads the theme for the stored favourite team.
func (l *Loader) Current(ctx context.Context, store Store) Theme {
	team, err := FavoriteTeam(ctx, store)
	if err != nil {
		l.logger.Warn("ignoring favourite team", "error", err)
		return l.fallback
	}
	return l.ForTeam(ctx, team)
}
