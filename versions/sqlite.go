package versions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"

	"pawfeed/models"
)

// SQLiteStore implements Store on the shared SQLite database. Version
// assignment reads the current maximum and inserts; the UNIQUE constraint on
// (content_type, content_id, version) rejects concurrent duplicates and the
// insert retries with backoff until it lands on a free number.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) CreateVersion(ctx context.Context, params CreateParams) (int64, error) {
	var id int64

	attempt := func() error {
		next, err := s.nextVersion(ctx, params.ContentType, params.ContentId)
		if err != nil {
			return backoff.Permanent(err)
		}

		ib := sqlbuilder.NewInsertBuilder()
		query, args := ib.InsertInto("versions").
			Cols("content_type", "content_id", "version", "content", "created_at", "created_by", "comment").
			Values(params.ContentType, params.ContentId, next, string(params.Content),
				time.Now().Unix(), params.CreatedBy, params.Comment).
			Build()

		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				// Another writer took this version number, try again
				return err
			}
			return backoff.Permanent(err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 5 * time.Second

	if err := backoff.Retry(attempt, backoff.WithContext(bo, ctx)); err != nil {
		return 0, fmt.Errorf("create version: %w", err)
	}

	log.WithFields(log.Fields{
		"contentType": params.ContentType,
		"contentId":   params.ContentId,
		"id":          id,
	}).Info("Created version")

	return id, nil
}

func (s *SQLiteStore) nextVersion(ctx context.Context, contentType, contentId string) (int, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("COALESCE(MAX(version), 0)").From("versions")
	sb.Where(sb.Equal("content_type", contentType), sb.Equal("content_id", contentId))
	query, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))

	var current int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&current); err != nil {
		return 0, err
	}
	return current + 1, nil
}

func (s *SQLiteStore) GetVersionHistory(ctx context.Context, contentType, contentId string, limit int) []models.VersionRecord {
	if limit <= 0 {
		limit = 50
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "content_type", "content_id", "version", "content", "created_at", "created_by", "comment")
	sb.From("versions")
	sb.Where(sb.Equal("content_type", contentType), sb.Equal("content_id", contentId))
	sb.OrderBy("version").Desc()
	sb.Limit(limit)
	query, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		// Favor availability of the calling page over strict correctness
		log.WithFields(log.Fields{
			"contentType": contentType,
			"contentId":   contentId,
			"error":       err,
		}).Error("Error reading version history")
		return []models.VersionRecord{}
	}
	defer rows.Close()

	records := []models.VersionRecord{}
	for rows.Next() {
		record, err := scanVersion(rows.Scan)
		if err != nil {
			log.Error("Error scanning version record", err)
			return []models.VersionRecord{}
		}
		records = append(records, record)
	}

	return records
}

func (s *SQLiteStore) GetVersion(ctx context.Context, contentType, contentId string, version int) *models.VersionRecord {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "content_type", "content_id", "version", "content", "created_at", "created_by", "comment")
	sb.From("versions")
	sb.Where(sb.Equal("content_type", contentType), sb.Equal("content_id", contentId), sb.Equal("version", version))
	query, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))

	record, err := scanVersion(s.db.QueryRowContext(ctx, query, args...).Scan)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.WithFields(log.Fields{
				"contentType": contentType,
				"contentId":   contentId,
				"version":     version,
				"error":       err,
			}).Error("Error reading version")
		}
		return nil
	}
	return &record
}

func (s *SQLiteStore) RestoreVersion(ctx context.Context, contentType, contentId string, version int, restoredBy string) (bool, error) {
	target := s.GetVersion(ctx, contentType, contentId, version)
	if target == nil {
		return false, nil
	}

	_, err := s.CreateVersion(ctx, CreateParams{
		ContentType: contentType,
		ContentId:   contentId,
		Content:     target.Content,
		CreatedBy:   restoredBy,
		Comment:     fmt.Sprintf("Restored from version %d", version),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanVersion(scan func(dest ...interface{}) error) (models.VersionRecord, error) {
	var record models.VersionRecord
	var content string
	var createdAt int64
	var createdBy, comment sql.NullString

	if err := scan(&record.Id, &record.ContentType, &record.ContentId, &record.Version,
		&content, &createdAt, &createdBy, &comment); err != nil {
		return record, err
	}

	record.Content = []byte(content)
	record.CreatedAt = time.Unix(createdAt, 0)
	record.CreatedBy = createdBy.String
	record.Comment = comment.String
	return record, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Admin holds the destructive capability. Only the compliance CLI should
// construct one.
type Admin struct {
	db *sql.DB
}

func NewAdmin(db *sql.DB) *Admin {
	return &Admin{db: db}
}

var _ AdminStore = (*Admin)(nil)

// DeleteVersionHistory permanently removes every version of the content
// item and returns how many records were deleted.
func (a *Admin) DeleteVersionHistory(ctx context.Context, contentType, contentId string) (int64, error) {
	del := sqlbuilder.NewDeleteBuilder()
	query, args := del.DeleteFrom("versions").
		Where(del.Equal("content_type", contentType), del.Equal("content_id", contentId)).
		Build()

	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete version history: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"contentType": contentType,
		"contentId":   contentId,
		"deleted":     deleted,
	}).Warn("Deleted version history")

	return deleted, nil
}
