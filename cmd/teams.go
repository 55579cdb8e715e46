package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/deepdive/internal/models"
	"github.com/desertthunder/deepdive/internal/theme"
	"github.com/urfave/cli/v3"
)

// TeamsList prints the team catalogue grouped by conference and division.
func (r *Runner) TeamsList(ctx context.Context, cmd *cli.Command) error {
	content, err := r.requireContent()
	if err != nil {
		return err
	}

	teams, err := content.ListTeams(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch teams: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(teams, cmd.Bool("pretty"))
	}

	favorite := ""
	if err := r.store(); err == nil {
		if team, err := theme.FavoriteTeam(ctx, r.prefs); err == nil && team != nil {
			favorite = team.Name
		}
	}

	r.writePlainHeader("Teams")
	group := ""
	for _, t := range teams {
		if g := strings.TrimSpace(t.Conference + " " + t.Division); g != group {
			group = g
			r.writePlain("\n%s\n", group)
		}
		marker := " "
		if strings.EqualFold(t.Name, favorite) {
			marker = "★"
		}
		r.writePlain("  %s %s\n", marker, t.Name)
	}
	r.writePlain("\nTotal: %d teams\n", len(teams))
	return nil
}

// TeamsFavorite shows, sets or clears the favourite team.
func (r *Runner) TeamsFavorite(ctx context.Context, cmd *cli.Command) error {
	if err := r.store(); err != nil {
		return err
	}

	if cmd.Bool("clear") {
		if err := theme.ClearFavoriteTeam(ctx, r.prefs); err != nil {
			return fmt.Errorf("failed to clear favourite team: %w", err)
		}
		r.writePlain("✓ Favourite team cleared\n")
		return nil
	}

	name := cmd.StringArg("name")
	if name == "" {
		team, err := theme.FavoriteTeam(ctx, r.prefs)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(team, cmd.Bool("pretty"))
		}
		if team == nil {
			r.writePlain("No favourite team set\n")
			return nil
		}
		r.writePlain("★ %s (%s %s)\n", team.Name, team.Conference, team.Division)
		return nil
	}

	content, err := r.requireContent()
	if err != nil {
		return err
	}
	teams, err := content.ListTeams(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch teams: %w", err)
	}
	team, err := models.FindTeam(teams, name)
	if err != nil {
		return err
	}
	if err := theme.SetFavoriteTeam(ctx, r.prefs, team); err != nil {
		return err
	}

	r.logger.Info("favourite team set", "team", team.Name)
	r.writePlain("✓ Favourite team set to %s\n", team.Name)
	return nil
}

// TeamsTheme prints the colour theme derived from the favourite team's logo.
func (r *Runner) TeamsTheme(ctx context.Context, cmd *cli.Command) error {
	loader := r.themeLoader()

	t := loader.Fallback()
	if err := r.store(); err != nil {
		r.logger.Warn("using fallback theme", "error", err)
	} else {
		t = loader.Current(ctx, r.prefs)
	}

	if cmd.Bool("css") {
		return r.writePlain("%s", t.CSS())
	}

	vars := t.CSSVariables()
	if cmd.Bool("json") {
		out := make(map[string]string, len(vars))
		for _, v := range vars {
			out[v.Name] = v.Value
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Theme")
	for _, v := range vars {
		r.writePlain("%-16s %s\n", v.Name, v.Value)
	}
	return nil
}
