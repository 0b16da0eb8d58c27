package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"pawfeed/db"
)

func tidyCmd() *cli.Command {
	return &cli.Command{
		Name:  "tidy",
		Usage: "Tidy up the database",
		Description: `Tidy up the database by removing posts that are old.

		Remove posts that are older than 90 days from the database.
		This is to keep the database size down and to keep the feeds fresh.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "feed.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"PAWFEED_DATABASE"},
			},
		},
		Action: func(ctx *cli.Context) error {
			database := ctx.String("database")
			fmt.Println("Database configured: ", database)
			return db.Tidy(database)
		},
	}
}
