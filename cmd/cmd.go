// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/sonata/internal/shared"
	"github.com/urfave/cli/v3"
)

func roleFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "role",
		Aliases: []string{"r"},
		Usage:   "Account role (listener or contributor)",
		Value:   shared.RoleListener,
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func pageFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "page",
		Usage: "Result page",
		Value: 1,
	}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles listener and contributor sessions
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage listener and contributor sessions",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and save the session token",
				Flags: []cli.Flag{
					roleFlag(),
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Sources: cli.EnvVars("SONATA_PASSWORD")},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and save the session token",
				Flags: []cli.Flag{
					roleFlag(),
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Display name", Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Sources: cli.EnvVars("SONATA_PASSWORD")},
					&cli.StringFlag{Name: "confirm", Usage: "Password confirmation (defaults to --password)"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Revoke and forget the session token",
				Flags:  []cli.Flag{roleFlag()},
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show saved sessions",
				Flags:  outputFlags(),
				Action: r.AuthStatus,
			},
		},
	}
}

// catalogCommand handles catalog browsing
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"cat"},
		Usage:   "Browse and search the catalog",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search artists, albums, genres, categories, periods, orchestras or songs",
				ArgsUsage: "<kind> [query]",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "kind"},
					&cli.StringArg{Name: "query"},
				},
				Flags:  append(outputFlags(), pageFlag()),
				Action: r.CatalogSearch,
			},
			{
				Name:      "songs",
				Usage:     "List the songs of an album or artist",
				ArgsUsage: "<album|artist> <id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "kind"},
					&cli.StringArg{Name: "id"},
				},
				Flags:  outputFlags(),
				Action: r.CatalogSongs,
			},
		},
	}
}

// homeCommand shows or exports the home feed
func homeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "home",
		Usage: "Show the recommended, popular and top lists",
		Flags: append(outputFlags(),
			pageFlag(),
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"o"},
				Usage:   "Write the feed to this directory instead of printing it",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (csv, markdown, txt, yaml, json)",
				Value:   "csv",
			},
			&cli.BoolFlag{
				Name:  "cover",
				Usage: "Download cover art with markdown exports",
			},
		),
		Action: r.Home,
	}
}

// categoriesCommand handles category administration
func categoriesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "Manage categories (contributor session required)",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List categories",
				Flags:  append(outputFlags(), pageFlag()),
				Action: r.CategoriesList,
			},
			{
				Name:      "create",
				Usage:     "Create a category",
				ArgsUsage: "<name>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Category description"},
				},
				Action: r.CategoriesCreate,
			},
			{
				Name:      "update",
				Usage:     "Rename or describe a category",
				ArgsUsage: "<id> <name>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Category description"},
				},
				Action: r.CategoriesUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a category",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.CategoriesDelete,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the Sonata API",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "GET a path and print the response",
				ArgsUsage: "<path>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
					&cli.StringFlag{
						Name:  "as",
						Usage: "Send the saved token for this role",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "POST a JSON body to a path",
				ArgsUsage: "<path>",
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
					&cli.StringFlag{
						Name:  "as",
						Usage: "Send the saved token for this role",
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// playCommand plays songs without the TUI
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Play a list of songs in the terminal",
		ArgsUsage: "<recommended|popular|top|search|album|artist> [query or id]",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "source"},
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "start",
				Usage: "1-based position of the first song to play",
				Value: 1,
			},
			&cli.FloatFlag{
				Name:  "volume",
				Usage: "Initial volume between 0 and 1 (defaults to config)",
				Value: -1,
			},
		},
		Action: r.Play,
	}
}

// tuiCommand returns the top-level TUI command for the interactive player.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive player",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log file while the TUI is running",
				Value: "./tmp/sonata-tui.log",
			},
		},
		Action: r.TUI,
	}
}
