package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"pawfeed/config"
	"pawfeed/db"
	"pawfeed/feeds"
	"pawfeed/ingest"
	"pawfeed/models"
	"pawfeed/server"
	"pawfeed/versions"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the pawfeed API",
		Description: `Starts the pawfeed HTTP server and ingest workers.

		Launches the HTTP server on the specified or default port. Submitted posts
		run through the quality and language filters before being written to the
		SQLite database. Feeds, diffs and version history are served over HTTP.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "feed.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"PAWFEED_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "hostname",
				Aliases: []string{"n"},
				Usage:   "The hostname where the server is running",
				EnvVars: []string{"PAWFEED_HOSTNAME"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   3000,
				Usage:   "The port to listen on",
				EnvVars: []string{"PAWFEED_PORT"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config/feeds.toml",
				Usage:   "Path to feeds configuration file",
				EnvVars: []string{"PAWFEED_CONFIG"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Value:   4,
				Usage:   "Number of ingest workers",
				EnvVars: []string{"PAWFEED_WORKERS"},
			},
			&cli.IntFlag{
				Name:    "queue-size",
				Value:   1000,
				Usage:   "Size of the ingest queue",
				EnvVars: []string{"PAWFEED_QUEUE_SIZE"},
			},
		},
		Action: func(ctx *cli.Context) error {
			fmt.Println("Starting pawfeed...")

			database := ctx.String("database")

			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := db.Migrate(database); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			// Channel for passing post events to the database writer
			writerChan := make(chan interface{})

			writer, err := db.NewWriter(database, writerChan)
			if err != nil {
				return fmt.Errorf("failed to open writer: %w", err)
			}

			reader, err := db.NewReader(database)
			if err != nil {
				return fmt.Errorf("failed to open reader: %w", err)
			}

			versionsDB, err := db.Connect(database)
			if err != nil {
				return fmt.Errorf("failed to open versions store: %w", err)
			}
			store := versions.NewSQLiteStore(versionsDB)

			// Channel for posts accepted by the ingest pipeline
			ingestChan := make(chan interface{})

			pool := ingest.NewParallelProcessor(
				ctx.Context,
				ctx.Int("workers"),
				ctx.Int("queue-size"),
				ingest.Config{
					RunLanguageDetection: cfg.Ingest.RunLanguageDetection,
					ConfidenceThreshold:  cfg.Ingest.ConfidenceThreshold,
					Languages:            cfg.Ingest.Languages,
					MinWords:             cfg.Ingest.MinWords,
				},
				ingestChan,
			)

			bc := server.NewBroadcaster()

			app := server.Server(&server.ServerConfig{
				Hostname:    ctx.String("hostname"),
				Reader:      reader,
				Broadcaster: bc,
				Feeds:       feeds.InitializeFeeds(cfg),
				Ingest:      pool,
				PostChan:    writerChan,
				Versions:    store,
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			var wg sync.WaitGroup

			go func() {
				<-c
				fmt.Println("Gracefully shutting down...")
				app.ShutdownWithTimeout(60 * time.Second)
				pool.Shutdown()
				close(ingestChan)
				bc.Shutdown()
				defer wg.Add(-1)
			}()

			go func() {
				log.Info("Starting database writer...")
				writer.Subscribe()
			}()

			// Forward accepted posts to the writer and any connected SSE clients
			go func() {
				for event := range ingestChan {
					writerChan <- event
					if createPost, ok := event.(models.CreatePostEvent); ok {
						bc.BroadcastCreatePost(createPost)
					}
				}
				close(writerChan)
			}()

			go func() {
				log.Info("Starting ingest workers...")
				pool.Start()
			}()

			go func() {
				fmt.Println("Starting server...")
				if err := app.Listen(fmt.Sprintf(":%d", ctx.Int("port"))); err != nil {
					log.Panic(err)
				}
			}()

			wg.Add(1)
			wg.Wait()

			fmt.Println("Done!")
			return nil
		},
	}
}
