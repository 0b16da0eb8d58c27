package db

import (
	"database/sql"
	"time"

	sb "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// Tidy removes posts that are older than 90 days from the database.
// Version history is never touched here.
func Tidy(database string) error {
	db, err := Connect(database)
	if err != nil {
		return err
	}
	defer db.Close()

	return tidy(db)
}

func tidy(db *sql.DB) error {
	ninetyDaysAgo := time.Now().Add(-90 * 24 * time.Hour).Unix()
	deletePosts := sb.NewDeleteBuilder()
	query, args := deletePosts.DeleteFrom("posts").Where(deletePosts.LessEqualThan("created_at", ninetyDaysAgo)).Build()

	log.WithFields(log.Fields{
		"sql":  query,
		"args": args,
	}).Info("Tidying database")

	if _, err := db.Exec(query, args...); err != nil {
		return err
	}

	return nil
}
