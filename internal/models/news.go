package models

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/desertthunder/deepdive/internal/shared"
)

// Player is a player tagged on a news update.
//
// Rows carry arbitrary extra attributes. The ones the reader uses are decoded into fields
// and the rest are kept in Extra so they survive a decode/encode round trip.
type Player struct {
	PlayerID    string                     `json:"player_id"`
	Name        string                     `json:"name,omitempty"`
	Position    string                     `json:"position,omitempty"`
	Team        string                     `json:"team,omitempty"`
	HeadshotURL string                     `json:"headshot_url,omitempty"`
	Extra       map[string]json.RawMessage `json:"-"`
}

var playerFields = []string{"player_id", "name", "position", "team", "headshot_url"}

func (p *Player) UnmarshalJSON(data []byte) error {
	type plain Player
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range playerFields {
		delete(all, k)
	}
	if len(all) > 0 {
		decoded.Extra = all
	}

	*p = Player(decoded)
	return nil
}

// MarshalJSON writes the decoded fields and Extra as one object. Decoded fields win on conflict.
func (p Player) MarshalJSON() ([]byte, error) {
	type plain Player
	data, err := json.Marshal(plain(p))
	if err != nil || len(p.Extra) == 0 {
		return data, err
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, ok := out[k]; !ok && !slices.Contains(playerFields, k) {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// BreakingNews is a row of the breaking news list.
type BreakingNews struct {
	ID                    string    `json:"id"`
	Headline              string    `json:"headline"`
	SubHeader             string    `json:"subHeader,omitempty"`
	IntroductionParagraph string    `json:"introductionParagraph,omitempty"`
	Content               string    `json:"content,omitempty"`
	CreatedAt             Timestamp `json:"createdAt"`
	ImageURL              string    `json:"imageUrl,omitempty"`
	Teams                 []string  `json:"teams,omitempty"`
	Players               []Player  `json:"players,omitempty"`
	URL                   string    `json:"url,omitempty"`
	AudioFile             string    `json:"audioFile,omitempty"`
	XPost                 string    `json:"xPost,omitempty"`
}

// Validate checks that the row can be addressed.
func (n BreakingNews) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("%w: news id is required", shared.ErrInvalidInput)
	}
	return nil
}

// NotificationBody is the text shown in a desktop notification for n.
func (n BreakingNews) NotificationBody() string {
	return shared.FirstNonEmpty(n.XPost, n.Headline)
}

// BreakingNewsDetail is the full body of a single news update.
type BreakingNewsDetail struct {
	ID           string    `json:"id"`
	Headline     string    `json:"headline"`
	CreatedAt    Timestamp `json:"created_at"`
	Content      string    `json:"content"`
	Introduction string    `json:"introduction"`
	ImageURL     string    `json:"image_url,omitempty"`
}
