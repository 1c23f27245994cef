// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the TunePeep session",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and clear the stored credential",
				Action: r.AuthLogout,
			},
			{
				Name:    "whoami",
				Aliases: []string{"status"},
				Usage:   "Verify the stored credential and show the signed-in account",
				Action:  r.AuthWhoami,
			},
		},
	}
}

// catalogCommand handles catalog reads and exports
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"cat"},
		Usage:   "Browse the music catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all catalog entries",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CatalogList,
			},
			{
				Name:  "show",
				Usage: "Show one catalog entry in full (requires sign-in)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CatalogShow,
			},
			{
				Name:    "recommended",
				Aliases: []string{"rec"},
				Usage:   "List recommended entries (requires sign-in)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CatalogRecommended,
			},
			{
				Name:   "genres",
				Usage:  "List genre tags",
				Action: r.CatalogGenres,
			},
			{
				Name:  "export",
				Usage: "Export the catalog to files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown, txt)",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers for per-entry formats",
						Value: 5,
					},
				},
				Action: r.CatalogExport,
			},
		},
	}
}

// adminCommand handles catalog mutations, all of which need the ADMIN role
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Curate the catalog (ADMIN role required)",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a catalog entry",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Music ID for the new entry",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Entry title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "album-img",
						Usage: "Album art URL",
					},
					&cli.StringFlag{
						Name:  "youtube-id",
						Usage: "YouTube video ID",
					},
					&cli.StringFlag{
						Name:  "genres",
						Usage: "Comma-separated genre names",
					},
				},
				Action: r.AdminAdd,
			},
			{
				Name:  "edit",
				Usage: "Edit a catalog entry",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "New title",
					},
					&cli.StringFlag{
						Name:  "album-img",
						Usage: "New album art URL",
					},
					&cli.StringFlag{
						Name:  "youtube-id",
						Usage: "New YouTube video ID",
					},
				},
				Action: r.AdminEdit,
			},
			{
				Name:  "delete",
				Usage: "Delete a catalog entry",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.AdminDelete,
			},
			{
				Name:  "review",
				Usage: "Replace the admin review of an entry",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "text",
						Aliases:  []string{"t"},
						Usage:    "Review text",
						Required: true,
					},
				},
				Action: r.AdminReview,
			},
		},
	}
}

// cacheCommand handles the local catalog cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Mirror the catalog into the local database",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Fetch the catalog and upsert every entry locally",
				Flags: []cli.Flag{
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Cache writes per second",
						Value: 50,
					},
				},
				Action: r.CacheSync,
			},
			{
				Name:   "list",
				Usage:  "List locally cached entries",
				Action: r.CacheList,
			},
		},
	}
}

// apiCommand handles direct calls against the TunePeep backend
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the TunePeep backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
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
			{
				Name:  "patch",
				Usage: "Direct PATCH with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPatch,
			},
			{
				Name:  "delete",
				Usage: "Direct DELETE",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.APIDelete,
			},
		},
	}
}

// devCommand runs local development helpers
func devCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Development helpers",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run a stub TunePeep backend for local development",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Usage: "Bind host",
					},
					&cli.IntFlag{
						Name:  "port",
						Usage: "Bind port",
					},
				},
				Action: r.DevServe,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the cache database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the cache database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Destination path",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive catalog browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive catalog browser",
		Action:  r.TUI,
	}
}
