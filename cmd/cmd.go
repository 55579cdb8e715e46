// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are shared by every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:    "lang",
			Aliases: []string{"l"},
			Usage:   "Content language (de or en); defaults to reader.default_language",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.BoolFlag{
			Name:  "direct",
			Usage: "Query the REST API directly instead of the hosted query handlers",
		},
	}
}

// setupCommand handles setup operations for the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// feedCommand lists the deep-dive feed.
func feedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "feed",
		Aliases: []string{"ls"},
		Usage:   "List deep-dive articles",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of articles to list (0 for all)",
			},
		},
		Action: r.Feed,
	}
}

// readCommand renders an article in the terminal.
func readCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "read",
		Usage: "Read an article",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "section",
				Aliases: []string{"s"},
				Usage:   "Only render this section (1-based)",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Print plain text instead of rendered Markdown",
			},
			&cli.StringFlag{
				Name:  "style",
				Usage: "Glamour style (dark, light, notty); empty picks one from the terminal",
			},
		},
		Action: r.Read,
	}
}

// exportCommand writes articles to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export articles as Markdown, text, CSV or JSON",
		ArgsUsage: "[article-id...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: markdown, txt, csv or json",
				Value:   "markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: deepdive_export_{timestamp})",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Export every article in the feed",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent export workers",
				Value: 4,
			},
			&cli.BoolFlag{
				Name:  "download-images",
				Usage: "Save hero images next to Markdown exports",
			},
		},
		Action: r.Export,
	}
}

// newsCommand handles breaking news.
func newsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "news",
		Usage: "Breaking news",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List breaking news from the last 48 hours",
				Action: r.NewsList,
			},
			{
				Name:  "show",
				Usage: "Show a breaking news item",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.NewsShow,
			},
			{
				Name:   "read",
				Usage:  "Mark all current breaking news as read",
				Action: r.NewsRead,
			},
			{
				Name:  "watch",
				Usage: "Watch for breaking news and send desktop notifications",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Polling interval (default: reader.watch_interval)",
					},
					&cli.BoolFlag{
						Name:  "no-notify",
						Usage: "Print new items without desktop notifications",
					},
				},
				Action: r.NewsWatch,
			},
		},
	}
}

// radioCommand handles narrated content.
func radioCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "radio",
		Usage: "Narrated news and deep dives",
		Commands: []*cli.Command{
			{
				Name:   "news",
				Usage:  "List the latest narrated news",
				Action: r.RadioNews,
			},
			{
				Name:   "deepdives",
				Usage:  "List deep dives with narration audio",
				Action: r.RadioDeepDives,
			},
			{
				Name:  "listen",
				Usage: "Open the narration audio of a news item or deep dive in the system player",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.RadioListen,
			},
		},
	}
}

// teamsCommand handles the team catalogue and theming.
func teamsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "teams",
		Usage: "Team catalogue, favourite team and colour theme",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all teams",
				Action: r.TeamsList,
			},
			{
				Name:  "favorite",
				Usage: "Show or set the favourite team",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Remove the favourite team",
					},
				},
				Action: r.TeamsFavorite,
			},
			{
				Name:  "theme",
				Usage: "Print the colour theme derived from the favourite team's logo",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "css",
						Usage: "Print a CSS :root rule",
					},
				},
				Action: r.TeamsTheme,
			},
		},
	}
}

// serveCommand runs the query handlers over HTTP.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the content query handlers over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default: server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (default: server.port)",
			},
		},
		Action: r.Serve,
	}
}

// apiCommand handles raw API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Raw authenticated calls to the backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive reading.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive reader",
		Action:  r.TUI,
	}
}
