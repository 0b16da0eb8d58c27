package cmd

import (
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "pawfeed",
		Usage: "Feed generation and revision history for a pet social network",
		Description: `Pawfeed ingests pet posts, filters out low quality content and serves
		diversified feeds with discovery injection over an HTTP API. It also keeps
		an append-only version history for editable content and can render line
		diffs between revisions.

		Flags can generally be set via environment variables, e.g.:

		--database => PAWFEED_DATABASE=feed.db
		--port => PAWFEED_PORT=3000
		`,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
			tidyCmd(),
			purgeHistoryCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}
