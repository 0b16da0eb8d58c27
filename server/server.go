package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"pawfeed/db"
	"pawfeed/diff"
	"pawfeed/feeds"
	"pawfeed/ingest"
	"pawfeed/models"
	"pawfeed/versions"
)

type ServerConfig struct {

	// The hostname to use for the server
	Hostname string

	// The reader to use for reading posts
	Reader *db.Reader

	// Broadcast channel to pass posts to SSE clients
	Broadcaster *Broadcaster

	// Configured feeds by id
	Feeds map[string]feeds.Feed

	// Ingest pool receiving submitted posts
	Ingest *ingest.ParallelProcessor

	// Channel for delete events to the database writer
	PostChan chan<- interface{}

	// Version history store
	Versions versions.Store
}

// feedRequest is the viewer context callers attach when generating a feed.
type feedRequest struct {
	Viewer models.User  `json:"viewer"`
	Pets   []models.Pet `json:"pets"`
}

type diffRequest struct {
	OldText string `json:"oldText"`
	NewText string `json:"newText"`
}

type restoreRequest struct {
	RestoredBy string `json:"restoredBy"`
}

// Returns a fiber.App instance to be used as the pawfeed HTTP server
func Server(config *ServerConfig) *fiber.App {

	bc := config.Broadcaster

	app := fiber.New()

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		stop := time.Now()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"latency": stop.Sub(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Cache-Control, Content-Type",
	}))

	// Setup cache
	app.Use(cache.New(cache.Config{
		Next: func(c *fiber.Ctx) bool {

			if c.Method() != "GET" {
				return true
			}

			// If the pathname ends with /sse, don't cache
			if strings.HasSuffix(c.Path(), "/sse") {
				return true
			}

			// Only cache dashboard requests
			if strings.HasPrefix(c.Path(), "/dashboard") {
				log.WithFields(log.Fields{
					"path": c.Path(),
				}).Info("Cache request")
				return false
			}
			return true
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			// Get URL with query string to use as cache key
			url := c.Request().URI().String()
			// Include the query parameters in the cache key
			return url
		},
	}))

	app.Post("/posts", func(c *fiber.Ctx) error {
		var post models.Post
		if err := c.BodyParser(&post); err != nil {
			return c.Status(400).SendString("Invalid post body")
		}
		if post.AuthorId == "" || strings.TrimSpace(post.Text) == "" {
			return c.Status(400).SendString("authorId and text are required")
		}
		if !config.Ingest.Submit(post) {
			return c.Status(503).SendString("Ingest queue full")
		}
		return c.Status(202).JSON(fiber.Map{"status": "queued"})
	})

	app.Delete("/posts/:id", func(c *fiber.Ctx) error {
		config.PostChan <- models.DeletePostEvent{Post: models.Post{Id: c.Params("id")}}
		return c.SendStatus(204)
	})

	// Generate a feed. GET serves an anonymous preview; POST accepts the
	// viewer context needed for visibility and discovery injection.
	feedHandler := func(c *fiber.Ctx) error {
		feedId := c.Params("id")
		feed, ok := config.Feeds[feedId]
		if !ok {
			return c.Status(400).SendString("Invalid feed")
		}

		cursor := safeParseCursor(c.Query("cursor", ""))
		limit, err := strconv.ParseInt(c.Query("limit", "50"), 0, 32)
		if err != nil || limit < 1 || limit > 100 {
			limit = 50
		}

		var req feedRequest
		if c.Method() == fiber.MethodPost {
			if err := c.BodyParser(&req); err != nil {
				return c.Status(400).SendString("Invalid viewer body")
			}
		}

		log.WithFields(log.Fields{
			"feed":   feedId,
			"viewer": req.Viewer.Id,
			"cursor": cursor,
			"limit":  limit,
		}).Info("Generate feed with parameters")

		candidates, err := config.Reader.GetFeedCandidates(feed.Languages, int(limit)+1, cursor)
		if err != nil {
			log.Error("Error getting feed candidates", err)
			return c.Status(500).SendString("Error generating feed")
		}

		var nextCursor *string
		if len(candidates) > int(limit) {
			candidates = candidates[:len(candidates)-1]
			parsed := strconv.FormatInt(candidates[len(candidates)-1].CreatedAt, 10)
			nextCursor = &parsed
		}

		generated := feed.Generate(candidates, candidates, req.Viewer, req.Pets)

		return c.JSON(models.FeedResponse{
			Feed:   generated,
			Cursor: nextCursor,
		})
	}
	app.Get("/feeds/:id", feedHandler)
	app.Post("/feeds/:id", feedHandler)

	app.Post("/diff", func(c *fiber.Ctx) error {
		var req diffRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).SendString("Invalid diff body")
		}

		blocks := diff.ComputeDiff(req.OldText, req.NewText)
		return c.JSON(fiber.Map{
			"blocks":  blocks,
			"summary": diff.Summarize(blocks),
		})
	})

	app.Post("/versions", func(c *fiber.Ctx) error {
		var params versions.CreateParams
		if err := c.BodyParser(&params); err != nil {
			return c.Status(400).SendString("Invalid version body")
		}
		if params.ContentType == "" || params.ContentId == "" {
			return c.Status(400).SendString("contentType and contentId are required")
		}

		id, err := config.Versions.CreateVersion(c.Context(), params)
		if err != nil {
			log.Error("Error creating version", err)
			return c.Status(500).SendString("Error creating version")
		}
		return c.Status(201).JSON(fiber.Map{"id": id})
	})

	app.Get("/versions/:contentType/:contentId", func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "50"))
		if err != nil {
			limit = 50
		}
		history := config.Versions.GetVersionHistory(c.Context(), c.Params("contentType"), c.Params("contentId"), limit)
		return c.JSON(history)
	})

	app.Get("/versions/:contentType/:contentId/:version", func(c *fiber.Ctx) error {
		version, err := strconv.Atoi(c.Params("version"))
		if err != nil {
			return c.Status(400).SendString("Invalid version number")
		}
		record := config.Versions.GetVersion(c.Context(), c.Params("contentType"), c.Params("contentId"), version)
		if record == nil {
			return c.Status(404).SendString("Version not found")
		}
		return c.JSON(record)
	})

	app.Post("/versions/:contentType/:contentId/:version/restore", func(c *fiber.Ctx) error {
		version, err := strconv.Atoi(c.Params("version"))
		if err != nil {
			return c.Status(400).SendString("Invalid version number")
		}

		var req restoreRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return c.Status(400).SendString("Invalid restore body")
			}
		}

		restored, err := config.Versions.RestoreVersion(c.Context(), c.Params("contentType"), c.Params("contentId"), version, req.RestoredBy)
		if err != nil {
			log.Error("Error restoring version", err)
			return c.Status(500).SendString("Error restoring version")
		}
		if !restored {
			return c.Status(404).SendString("Version not found")
		}
		return c.JSON(fiber.Map{"restored": true})
	})

	app.Get("/dashboard/posts-per-time", func(c *fiber.Ctx) error {
		lang := c.Query("lang", "")
		timeAgg := c.Query("time", "hour")

		if timeAgg != "hour" && timeAgg != "day" && timeAgg != "week" {
			return c.Status(400).SendString("Invalid time")
		}

		postsPerTime, err := config.Reader.GetPostCountPerTime(lang, timeAgg)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error getting posts per time")

			return c.Status(500).SendString("Error getting posts per time")
		}

		return c.Status(200).JSON(postsPerTime)
	})

	app.Delete("/dashboard/feed/sse", func(c *fiber.Ctx) error {
		key := c.Query("key", "")
		bc.RemoveClient(key)
		return c.Status(200).SendString("OK")
	})

	app.Get("/dashboard/feed/sse", func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("Transfer-Encoding", "chunked")

		// Unique client key
		key := uuid.New().String()
		sseCreatePostChannel := make(chan models.CreatePostEvent, 10) // Buffered channel
		aliveChan := time.NewTicker(5 * time.Second)

		defer aliveChan.Stop()

		bc.AddClient(key, sseCreatePostChannel)

		cleanup := func() {
			log.Infof("Cleaning up SSE stream for client: %s", key)
			bc.RemoveClient(key)
		}

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer cleanup()

			// Send initial event with client key
			fmt.Fprintf(w, "event: init\ndata: %s\n\n", key)
			if err := w.Flush(); err != nil {
				log.Errorf("Failed to send init event: %v", err)
				return
			}

			for {
				select {
				case <-aliveChan.C:
					if _, err := fmt.Fprintf(w, "event: ping\ndata: \n\n"); err != nil {
						log.Warnf("Failed to send ping to client %s: %v", key, err)
						return
					}
					if err := w.Flush(); err != nil {
						log.Warnf("Failed to flush ping for client %s: %v", key, err)
						return
					}

				case post, ok := <-sseCreatePostChannel:
					if !ok {
						log.Warnf("CreatePostChannel closed for client %s", key)
						return
					}
					jsonPost, err := json.Marshal(post.Post)
					if err != nil {
						log.Errorf("Error marshalling post for client %s: %v", key, err)
						continue
					}
					if _, err := fmt.Fprintf(w, "event: create-post\ndata: %s\n\n", jsonPost); err != nil {
						log.Warnf("Failed to send create-post event to client %s: %v", key, err)
						return
					}
					if err := w.Flush(); err != nil {
						log.Warnf("Failed to flush create-post event for client %s: %v", key, err)
						return
					}
				}
			}
		}))

		return nil
	})

	return app
}

// safeParseCursor parses the cursor string and returns the timestamp.
// If the cursor is invalid, it returns 0
func safeParseCursor(cursor string) int64 {
	ts, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
