package cmd

import (
	"errors"
	"fmt"

	"github.com/cqroot/prompt"
	"github.com/urfave/cli/v2"

	"pawfeed/db"
	"pawfeed/versions"
)

// purgeHistoryCmd is the only entry point for destroying version history.
// The regular API never deletes versions.
func purgeHistoryCmd() *cli.Command {
	return &cli.Command{
		Name:  "purge-history",
		Usage: "Delete the version history for a piece of content",
		Description: `Deletes all stored versions for the given content type and id.

		This is irreversible. The command asks you to retype the content id
		before anything is deleted.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "feed.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"PAWFEED_DATABASE"},
			},
			&cli.StringFlag{
				Name:     "content-type",
				Usage:    "Content type of the versioned content, e.g. post",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "content-id",
				Usage:    "Id of the versioned content",
				Required: true,
			},
		},
		Action: func(ctx *cli.Context) error {
			contentType := ctx.String("content-type")
			contentId := ctx.String("content-id")

			confirmation, err := prompt.New().Ask(
				fmt.Sprintf("Retype the content id to delete all versions of %s/%s:", contentType, contentId),
			).Input("")
			if err != nil {
				return err
			}
			if confirmation != contentId {
				return errors.New("content id did not match, aborting")
			}

			database, err := db.Connect(ctx.String("database"))
			if err != nil {
				return err
			}
			defer database.Close()

			admin := versions.NewAdmin(database)
			deleted, err := admin.DeleteVersionHistory(ctx.Context, contentType, contentId)
			if err != nil {
				return err
			}

			fmt.Printf("Deleted %d versions of %s/%s\n", deleted, contentType, contentId)
			return nil
		},
	}
}
