package db

import (
	"database/sql"
	"encoding/json"
	"time"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"

	"pawfeed/models"
)

type Writer struct {
	db       *sql.DB
	postChan chan interface{}
	tidyChan *time.Ticker
}

func NewWriter(database string, postChan chan interface{}) (*Writer, error) {
	db, err := Connect(database)
	if err != nil {
		return nil, err
	}
	return &Writer{
		db:       db,
		postChan: postChan,
		// Tidy the database every 6 hours
		tidyChan: time.NewTicker(6 * time.Hour),
	}, nil
}

// Subscribe consumes post events until the channel is closed.
func (writer *Writer) Subscribe() {
	if err := tidy(writer.db); err != nil {
		log.Error("Error tidying database", err)
	}

	for {
		select {
		case <-writer.tidyChan.C:
			log.Info("Tidying database")
			if err := tidy(writer.db); err != nil {
				log.Error("Error tidying database", err)
			}

		case event, ok := <-writer.postChan:
			if !ok {
				return
			}
			switch event := event.(type) {
			case models.CreatePostEvent:
				createPost(writer.db, event.Post)
			case models.DeletePostEvent:
				deletePost(writer.db, event.Post)
			default:
				log.Info("Unknown post event type")
			}
		}
	}
}

func (writer *Writer) Close() error {
	writer.tidyChan.Stop()
	return writer.db.Close()
}

func createPost(db *sql.DB, post models.Post) error {
	log.WithFields(log.Fields{
		"id":     post.Id,
		"author": post.AuthorId,
	}).Info("Creating post")

	media := marshalOrEmpty(post.Media)
	reactions := marshalOrEmpty(post.Reactions)
	likes := marshalOrEmpty(post.Likes)

	insertPost := sqlbuilder.NewInsertBuilder()
	query, args := insertPost.InsertInto("posts").
		Cols("id", "author_id", "pet_id", "text", "privacy", "media", "reactions", "likes", "created_at").
		Values(post.Id, post.AuthorId, post.PetId, post.Text, post.Privacy, media, reactions, likes, post.CreatedAt).
		Build()

	if _, err := db.Exec(query, args...); err != nil {
		log.Error("Error inserting post", err)
		return err
	}

	if len(post.Languages) == 0 {
		return nil
	}

	insertLangs := sqlbuilder.NewInsertBuilder()
	insertLangs.InsertInto("post_languages").Cols("post_id", "language")
	for _, lang := range post.Languages {
		insertLangs.Values(post.Id, lang)
	}
	query, args = insertLangs.Build()

	if _, err := db.Exec(query, args...); err != nil {
		log.Error("Error inserting languages", err)
		return err
	}

	return nil
}

func deletePost(db *sql.DB, post models.Post) error {
	log.WithFields(log.Fields{"id": post.Id}).Info("Deleting post")
	_, err := db.Exec("DELETE FROM posts WHERE id = ?", post.Id)
	if err != nil {
		return err
	}
	return nil
}

func marshalOrEmpty(v interface{}) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	s := string(data)
	if s == "null" {
		return ""
	}
	return s
}
