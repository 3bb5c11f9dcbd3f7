// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the config file and local store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file and local store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles account operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Account and session operations",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "signup",
				Usage: "Create an account",
				Commands: []*cli.Command{
					{
						Name:  "request",
						Usage: "Request a verification code",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
							&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
							&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true},
						},
						Action: r.AuthSignupRequest,
					},
					{
						Name:  "confirm",
						Usage: "Confirm the emailed verification code",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
							&cli.StringFlag{Name: "code", Required: true},
						},
						Action: r.AuthSignupConfirm,
					},
					{
						Name:  "resend",
						Usage: "Resend the verification code",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
						},
						Action: r.AuthSignupResend,
					},
				},
			},
			{
				Name:   "logout",
				Usage:  "Sign out and clear the local session",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed-in user",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.AuthWhoami,
			},
		},
	}
}

// moviesCommand handles catalog operations
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"mov"},
		Usage:   "Movie catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the movie catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, json, csv, markdown",
						Value:   "text",
					},
					&cli.StringFlag{Name: "save", Usage: "Write CSV export to this base path"},
				},
				Action: r.MoviesList,
			},
			{
				Name:      "show",
				Usage:     "Show a single movie",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action:    r.MoviesShow,
			},
		},
	}
}

// recommendCommand runs a one-shot recommendation
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"rec"},
		Usage:   "Get movie recommendations",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "runtime",
				Aliases: []string{"t"},
				Usage:   "Maximum runtime in minutes",
				Value:   120,
			},
			&cli.StringSliceFlag{
				Name:    "genre",
				Aliases: []string{"g"},
				Usage:   "Genre name (repeatable, up to 3)",
			},
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Rank the catalog locally instead of asking the backend",
			},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Recommend,
	}
}

// historyCommand handles watch history operations
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"hist"},
		Usage:   "Watch history operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show watch history with movie details",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, json, markdown",
						Value:   "text",
					},
					&cli.StringFlag{Name: "export", Usage: "Write Markdown and CSV exports to this directory"},
				},
				Action: r.HistoryList,
			},
			{
				Name:      "add",
				Usage:     "Record a watched movie",
				Arguments: []cli.Argument{&cli.StringArg{Name: "movie-id"}},
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "rating", Aliases: []string{"r"}, Usage: "Rating from 0 to 5", Value: 0},
				},
				Action: r.HistoryAdd,
			},
			{
				Name:   "stats",
				Usage:  "Show viewing statistics",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.HistoryStats,
			},
		},
	}
}

// profileCommand handles profile operations
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Profile operations",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the signed-in user's profile",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Update profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name"},
					&cli.StringSliceFlag{Name: "genre", Aliases: []string{"g"}, Usage: "Favorite genre (repeatable)"},
					&cli.StringSliceFlag{Name: "ott", Usage: "Subscribed OTT platform (repeatable)"},
				},
				Action: r.ProfileUpdate,
			},
			{
				Name:      "theme",
				Usage:     "Show or set the theme preference (dark, light)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "theme"}},
				Action:    r.ProfileTheme,
			},
			{
				Name:  "delete",
				Usage: "Delete the account",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip confirmation"},
				},
				Action: r.ProfileDelete,
			},
		},
	}
}

// onboardCommand launches the onboarding TUI
func onboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "onboard",
		Usage:  "Run the first-time taste onboarding",
		Action: r.Onboard,
	}
}

// chatCommand launches the chatbot TUI
func chatCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "chat",
		Usage:  "Chat with the movie recommender",
		Action: r.Chat,
	}
}
