// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/trackrate/internal/formatter"
	"github.com/urfave/cli/v3"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (text, json, csv, markdown)",
		Value:   string(formatter.FormatText),
	}
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the schema and run bootstrap migrations (sqlite3 only)",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the configuration file to create",
						Value:   defaultConfigPath,
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// loginCommand checks a login and password pair.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Check credentials and print the matching account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "login", Aliases: []string{"l"}, Usage: "Account login", Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Required: true},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Login,
	}
}

// tracksCommand handles track listings and edits.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tracks",
		Aliases: []string{"track"},
		Usage:   "List, search and edit tracks",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List every track with its average rating",
				Flags:  []cli.Flag{formatFlag()},
				Action: r.TracksList,
			},
			{
				Name:  "find",
				Usage: "Search tracks by title, singer or composer",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  []cli.Flag{formatFlag()},
				Action: r.TracksFind,
			},
			{
				Name:  "update",
				Usage: "Replace a track's details",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Usage: "Track ID", Required: true},
					&cli.StringFlag{Name: "title", Usage: "Track title", Required: true},
					&cli.IntFlag{Name: "duration", Usage: "Length in seconds"},
					&cli.BoolFlag{Name: "age-restricted", Usage: "Mark the track 18+"},
					&cli.StringFlag{Name: "singer", Usage: "Singer login (an Artist)", Required: true},
					&cli.StringFlag{Name: "composer", Usage: "Composer login (an Artist)", Required: true},
				},
				Action: r.TracksUpdate,
			},
		},
	}
}

// usersCommand handles account listings and edits.
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "users",
		Aliases: []string{"user"},
		Usage:   "List, register and edit accounts",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List every account",
				Flags:  []cli.Flag{formatFlag()},
				Action: r.UsersList,
			},
			{
				Name:  "add",
				Usage: "Register an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "login", Usage: "Account login", Required: true},
					&cli.StringFlag{Name: "firstname", Usage: "First name", Required: true},
					&cli.StringFlag{Name: "lastname", Usage: "Last name", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Password", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Email address"},
					&cli.StringFlag{Name: "role", Usage: "Customer, Artist or Staff", Value: "Customer"},
				},
				Action: r.UsersAdd,
			},
			{
				Name:  "update",
				Usage: "Change an account's names and email",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "login", Usage: "Account login", Required: true},
					&cli.StringFlag{Name: "firstname", Usage: "First name", Required: true},
					&cli.StringFlag{Name: "lastname", Usage: "Last name", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Email address (empty clears it)"},
				},
				Action: r.UsersUpdate,
			},
		},
	}
}

// reviewsCommand handles review listings and edits.
func reviewsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "reviews",
		Aliases: []string{"review"},
		Usage:   "List, write and edit reviews",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List every review, newest first",
				Flags:  []cli.Flag{formatFlag()},
				Action: r.ReviewsList,
			},
			{
				Name:  "add",
				Usage: "Write a review of a track",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "track", Usage: "Track ID", Required: true},
					&cli.IntFlag{Name: "rating", Usage: "Rating from 1 to 5", Required: true},
					&cli.StringFlag{Name: "customer", Usage: "Reviewer login (a Customer)", Required: true},
					&cli.StringFlag{Name: "content", Usage: "Review text"},
					&cli.StringFlag{Name: "date", Usage: "Review date as YYYY-MM-DD (default: today)"},
				},
				Action: r.ReviewsAdd,
			},
			{
				Name:  "update",
				Usage: "Change a review's rating and text; the date moves to today",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Usage: "Review ID", Required: true},
					&cli.IntFlag{Name: "rating", Usage: "Rating from 1 to 5", Required: true},
					&cli.StringFlag{Name: "content", Usage: "Review text"},
				},
				Action: r.ReviewsUpdate,
			},
		},
	}
}

// exportCommand writes listing snapshots to files.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export tracks, users and reviews to files",
		Flags: []cli.Flag{
			formatFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: trackrate_export_{timestamp})",
			},
			&cli.StringSliceFlag{
				Name:    "dataset",
				Aliases: []string{"d"},
				Usage:   "Dataset to export (tracks, users, reviews); repeatable",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent workers",
				Value: 3,
			},
		},
		Action: r.Export,
	}
}

// serveCommand starts the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the JSON HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Listen host (overrides server.host)"},
			&cli.IntFlag{Name: "port", Usage: "Listen port (overrides server.port)"},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for browsing the store.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive read-only browser",
		Action:  r.TUI,
	}
}
