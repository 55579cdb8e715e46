package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/deepdive/internal/shared"
)

// Team is a catalogue entry used by the team selector and for theming.
type Team struct {
	Name       string `json:"team_name"`
	Conference string `json:"team_conference"`
	Division   string `json:"team_division"`
	LogoURL    string `json:"logo_url"`
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: team name is required", shared.ErrInvalidInput)
	}
	return nil
}

// FindTeam returns the team whose name matches name case-insensitively.
func FindTeam(teams []Team, name string) (Team, error) {
	for _, t := range teams {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return Team{}, fmt.Errorf("%w: %s", shared.ErrTeamNotFound, name)
}
