package models

// RadioNews is a news update with a narration track.
type RadioNews struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CreatedAt   Timestamp `json:"createdAt"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	AudioURL    string    `json:"audioUrl,omitempty"`
	PrimaryTeam *string   `json:"primaryTeam"`
}

// RadioDeepDive is a deep dive that has narration audio.
type RadioDeepDive struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	HeroImageURL string `json:"hero_image_url"`
	AudioFile    string `json:"audio_file"`
	PublishedAt  string `json:"published_at"`
	LanguageCode string `json:"language_code"`
}
