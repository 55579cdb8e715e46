package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/shared"
)

const (
	tableDeepDives    = "deepdive_article"
	tableNewsUpdates  = "news_updates"
	tableBreakingNews = "breaking_news"
	tablePlayers      = "players"
	tableTeams        = "teams"

	// BreakingNewsWindow is how far back breaking news reaches.
	BreakingNewsWindow = 48 * time.Hour

	// RadioNewsLimit caps the radio news list.
	RadioNewsLimit = 30
)

// DirectService implements [ContentService] by querying the tables itself.
type DirectService struct {
	rest    *RestClient
	baseURL string
	bucket  string
	now     func() time.Time
}

// NewDirectService creates a [DirectService] for the project in cfg.
func NewDirectService(cfg shared.SupabaseConfig, rest *RestClient) *DirectService {
	return &DirectService{
		rest:    rest,
		baseURL: cfg.URL,
		bucket:  cfg.StorageBucket,
		now:     time.Now,
	}
}

func (d *DirectService) Name() string {
	return "direct"
}

// WithAuthorization returns a copy whose queries carry the caller's Authorization header.
func (d *DirectService) WithAuthorization(header string) ContentService {
	cp := *d
	cp.rest = d.rest.WithAuthorization(header)
	return &cp
}

func (d *DirectService) resolve(path string) string {
	return PublicObjectURL(d.baseURL, d.bucket, path)
}

func (d *DirectService) ListDeepDives(ctx context.Context, lang models.Language) ([]models.RawArticle, error) {
	q := d.rest.From(tableDeepDives).
		Select("id", "language_code", "hero_image_url", "published_at", "author", "title", "subtitle", "audio_file").
		Order("published_at", false)
	if lang != "" {
		q = q.Eq("language_code", lang.String())
	}

	var rows []models.RawArticle
	if err := q.Execute(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *DirectService) GetDeepDive(ctx context.Context, id string) (*models.RawArticle, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: article id", shared.ErrMissingArgument)
	}

	var row models.RawArticle
	err := d.rest.From(tableDeepDives).Select("*").Eq("id", id).Single().Execute(ctx, &row)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", shared.ErrArticleNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

type newsRow struct {
	ID                    string           `json:"id"`
	CreatedAt             models.Timestamp `json:"created_at"`
	Headline              string           `json:"headline"`
	SubHeader             string           `json:"sub_header"`
	IntroductionParagraph string           `json:"introduction_paragraph"`
	Content               string           `json:"content"`
	ImageFile             string           `json:"image_file"`
	Teams                 []string         `json:"teams"`
	Players               []models.Player  `json:"players"`
	URL                   string           `json:"url"`
	TTSFile               string           `json:"tts_file"`
	XPost                 string           `json:"x_post"`
}

func (d *DirectService) ListBreakingNews(ctx context.Context, lang models.Language) ([]models.BreakingNews, error) {
	since := d.now().Add(-BreakingNewsWindow).UTC().Format(time.RFC3339)

	q := d.rest.From(tableNewsUpdates).
		Select("id", "created_at", "headline", "sub_header", "introduction_paragraph", "content",
			"image_file", "teams", "players", "url", "tts_file").
		Gt("created_at", since).
		Order("created_at", false)
	if lang != "" {
		q = q.Eq("language_code", lang.String())
	}

	var rows []newsRow
	if err := q.Execute(ctx, &rows); err != nil {
		return nil, err
	}

	headshots := d.playerHeadshots(ctx, rows)

	news := make([]models.BreakingNews, len(rows))
	for i, row := range rows {
		players := make([]models.Player, len(row.Players))
		for j, p := range row.Players {
			p.HeadshotURL = headshots[p.PlayerID]
			players[j] = p
		}

		news[i] = models.BreakingNews{
			ID:                    row.ID,
			Headline:              row.Headline,
			SubHeader:             row.SubHeader,
			IntroductionParagraph: row.IntroductionParagraph,
			Content:               row.Content,
			CreatedAt:             row.CreatedAt,
			ImageURL:              d.resolve(row.ImageFile),
			Teams:                 row.Teams,
			Players:               players,
			URL:                   row.URL,
			AudioFile:             row.TTSFile,
			XPost:                 row.XPost,
		}
	}
	return news, nil
}

// playerHeadshots looks up every tagged player in one query. A failed lookup leaves headshots empty.
func (d *DirectService) playerHeadshots(ctx context.Context, rows []newsRow) map[string]string {
	seen := map[string]bool{}
	var ids []string
	for _, row := range rows {
		for _, p := range row.Players {
			if p.PlayerID != "" && !seen[p.PlayerID] {
				seen[p.PlayerID] = true
				ids = append(ids, p.PlayerID)
			}
		}
	}

	headshots := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return headshots
	}

	var players []struct {
		PlayerID string `json:"player_id"`
		Headshot string `json:"headshot"`
	}
	err := d.rest.From(tablePlayers).Schema("public").
		Select("player_id", "headshot").
		In("player_id", ids).
		Execute(ctx, &players)
	if err != nil {
		return headshots
	}

	for _, p := range players {
		headshots[p.PlayerID] = p.Headshot
	}
	return headshots
}

func (d *DirectService) GetBreakingNewsDetail(ctx context.Context, id string) (*models.BreakingNewsDetail, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: Missing ID parameter", shared.ErrMissingArgument)
	}

	var row struct {
		ID            string           `json:"id"`
		Headline      string           `json:"headline"`
		CreatedAt     models.Timestamp `json:"created_at"`
		Content       string           `json:"content"`
		Introduction  string           `json:"introduction"`
		ArticleImages json.RawMessage  `json:"article_images"`
	}
	err := d.rest.From(tableBreakingNews).
		Select("id", "headline", "created_at", "content", "introduction", "article_images(image_url)").
		Eq("id", id).
		Single().
		Execute(ctx, &row)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNewsNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	return &models.BreakingNewsDetail{
		ID:           row.ID,
		Headline:     row.Headline,
		CreatedAt:    row.CreatedAt,
		Content:      row.Content,
		Introduction: row.Introduction,
		ImageURL:     embeddedImageURL(row.ArticleImages),
	}, nil
}

// embeddedImageURL reads image_url from an embedded resource, which PostgREST
// returns as an object for to-one relations and as an array for to-many.
func embeddedImageURL(raw json.RawMessage) string {
	type image struct {
		ImageURL string `json:"image_url"`
	}

	var one image
	if err := json.Unmarshal(raw, &one); err == nil {
		return one.ImageURL
	}

	var many []image
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0].ImageURL
	}
	return ""
}

func (d *DirectService) ListRadioNews(ctx context.Context, lang models.Language) ([]models.RadioNews, error) {
	q := d.rest.From(tableNewsUpdates).
		Select("id", "created_at", "headline", "image_file", "teams", "tts_file").
		Order("created_at", false).
		Limit(RadioNewsLimit)
	if lang != "" {
		q = q.Eq("language_code", lang.String())
	}

	var rows []newsRow
	if err := q.Execute(ctx, &rows); err != nil {
		return nil, err
	}

	items := make([]models.RadioNews, len(rows))
	for i, row := range rows {
		item := models.RadioNews{
			ID:        row.ID,
			Title:     row.Headline,
			CreatedAt: row.CreatedAt,
			ImageURL:  d.resolve(row.ImageFile),
			AudioURL:  d.resolve(row.TTSFile),
		}
		if len(row.Teams) > 0 {
			team := row.Teams[0]
			item.PrimaryTeam = &team
		}
		items[i] = item
	}
	return items, nil
}

func (d *DirectService) ListRadioDeepDives(ctx context.Context, lang models.Language) ([]models.RadioDeepDive, error) {
	if lang == "" {
		lang = models.English
	}

	var rows []models.RadioDeepDive
	err := d.rest.From(tableDeepDives).
		Select("id", "title", "subtitle", "hero_image_url", "audio_file", "published_at", "language_code").
		Eq("language_code", lang.String()).
		NotNull("audio_file").
		Order("published_at", false).
		Execute(ctx, &rows)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].HeroImageURL = d.resolve(rows[i].HeroImageURL)
		rows[i].AudioFile = d.resolve(rows[i].AudioFile)
	}
	return rows, nil
}

func (d *DirectService) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	err := d.rest.From(tableTeams).Schema("public").
		Select("team_name", "team_conference", "team_division", "logo_url").
		Execute(ctx, &teams)
	if err != nil {
		return nil, err
	}
	return teams, nil
}
