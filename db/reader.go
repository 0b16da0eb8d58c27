package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	sqlbuilder "github.com/huandu/go-sqlbuilder"

	"pawfeed/models"
)

type Reader struct {
	db *sql.DB
}

func NewReader(database string) (*Reader, error) {
	db, err := ConnectReadOnly(database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return &Reader{db: db}, nil
}

func (reader *Reader) Close() error {
	return reader.db.Close()
}

// GetFeedCandidates returns posts newest first, optionally restricted to the
// given languages and to posts created before the cursor timestamp.
func (reader *Reader) GetFeedCandidates(langs []string, limit int, before int64) ([]models.Post, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("DISTINCT posts.id", "posts.author_id", "posts.pet_id", "posts.text",
		"posts.privacy", "posts.media", "posts.reactions", "posts.likes", "posts.created_at")
	sb.From("posts")

	if before != 0 {
		sb.Where(sb.LessThan("posts.created_at", before))
	}

	if len(langs) > 0 {
		sb.Join("post_languages", "posts.id = post_languages.post_id")
		langConditions := make([]string, len(langs))
		for i, lang := range langs {
			langConditions[i] = sb.Equal("post_languages.language", lang)
		}
		sb.Where(sb.Or(langConditions...))
	}

	sb.OrderBy("posts.created_at").Desc()
	sb.Limit(limit)

	query, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))

	rows, err := reader.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func scanPost(rows *sql.Rows) (models.Post, error) {
	var post models.Post
	var petId, privacy, media, reactions, likes sql.NullString

	if err := rows.Scan(&post.Id, &post.AuthorId, &petId, &post.Text,
		&privacy, &media, &reactions, &likes, &post.CreatedAt); err != nil {
		return post, err
	}

	post.PetId = petId.String
	post.Privacy = privacy.String
	if media.Valid && media.String != "" {
		var m models.Media
		if err := json.Unmarshal([]byte(media.String), &m); err == nil {
			post.Media = &m
		}
	}
	if reactions.Valid && reactions.String != "" {
		_ = json.Unmarshal([]byte(reactions.String), &post.Reactions)
	}
	if likes.Valid && likes.String != "" {
		_ = json.Unmarshal([]byte(likes.String), &post.Likes)
	}

	return post, nil
}

// Returns the number of posts per hour, day or week
func (reader *Reader) GetPostCountPerTime(lang string, timeAgg string) ([]models.PostsAggregatedByTime, error) {
	var sqlFormat string
	var timeParse func(string) (time.Time, error)

	switch timeAgg {
	case "day":
		sqlFormat = `STRFTIME('%Y-%m-%d', created_at, 'unixepoch')`
		timeParse = func(str string) (time.Time, error) {
			return time.Parse("2006-01-02", str)
		}
	case "week":
		sqlFormat = "STRFTIME('%Y-%W', created_at, 'unixepoch')"
		timeParse = func(str string) (time.Time, error) {
			// Manually parse year and week number as separate integers
			year, err := time.Parse("2006", str[:4])
			if err != nil {
				return time.Time{}, err
			}
			week, err := strconv.ParseInt(str[5:], 10, 64)
			if err != nil {
				return time.Time{}, err
			}

			_, weekOffset := year.ISOWeek()
			weekOffset = weekOffset - 1
			firstDay := year.AddDate(0, 0, -int(year.Weekday())+weekOffset*7)

			return firstDay.AddDate(0, 0, int(week)*7), nil
		}
	default:
		sqlFormat = `STRFTIME('%Y-%m-%d-%H', created_at, 'unixepoch')`
		timeParse = func(str string) (time.Time, error) {
			return time.Parse("2006-01-02-15", str)
		}
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(sqlFormat, "count(*) as count").From("posts")
	if lang != "" {
		sb.Join("post_languages", "posts.id = post_languages.post_id")
		sb.Where(sb.Equal("language", lang))
	}
	sb.GroupBy(sqlFormat)
	sb.OrderBy("created_at").Asc()

	query, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))

	rows, err := reader.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postCounts []models.PostsAggregatedByTime
	for rows.Next() {
		var sqlTime string
		var postCount models.PostsAggregatedByTime

		if err := rows.Scan(&sqlTime, &postCount.Count); err != nil {
			continue // Skip this row
		}

		postTime, err := timeParse(sqlTime)
		if err == nil {
			postCount.Time = postTime
		}
		postCounts = append(postCounts, postCount)
	}

	return postCounts, nil
}
