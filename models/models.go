package models

import (
	"encoding/json"
	"time"
)

// Media holds the attachment references of a post. The feed layer derives
// the post's content type from which sets are non-empty.
type Media struct {
	Images []string `json:"images,omitempty"`
	Videos []string `json:"videos,omitempty"`
	Links  []string `json:"links,omitempty"`
}

// Post model with key fields from the post
type Post struct {
	Id        string              `json:"id"`
	AuthorId  string              `json:"authorId"`
	PetId     string              `json:"petId,omitempty"`
	Text      string              `json:"text"`
	Privacy   string              `json:"privacy,omitempty"`
	Languages []string            `json:"languages,omitempty"`
	Media     *Media              `json:"media,omitempty"`
	Reactions map[string][]string `json:"reactions,omitempty"`
	Likes     []string            `json:"likes,omitempty"`
	CreatedAt int64               `json:"createdAt"`
}

// User carries the viewer identity needed to resolve the follow network.
type User struct {
	Id            string   `json:"id"`
	Following     []string `json:"following,omitempty"`
	FollowingPets []string `json:"followingPets,omitempty"`
}

// Pet is the subject of a post. A pet counts as followed when the viewer
// appears in its follower list or lists it under followingPets.
type Pet struct {
	Id        string   `json:"id"`
	OwnerId   string   `json:"ownerId"`
	Followers []string `json:"followers,omitempty"`
}

// CreateEvent fired when a new post is accepted by the ingest pipeline
type CreatePostEvent struct {
	Post Post
}

// DeleteEvent fired when a post is deleted
type DeletePostEvent struct {
	Post Post
}

type FeedResponse struct {
	Feed   []Post  `json:"feed"`
	Cursor *string `json:"cursor"`
}

type PostsAggregatedByTime struct {
	Time  time.Time `json:"time"`
	Count int64     `json:"count"`
}

// VersionRecord is one immutable snapshot of a content item. Version numbers
// are strictly increasing per (ContentType, ContentId) and are never reused.
type VersionRecord struct {
	Id          int64           `json:"id"`
	ContentType string          `json:"contentType"`
	ContentId   string          `json:"contentId"`
	Version     int             `json:"version"`
	Content     json.RawMessage `json:"content"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	Comment     string          `json:"comment,omitempty"`
}
