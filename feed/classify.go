// Package feed reorders candidate post lists so that no single author or
// content type dominates a stretch of the feed, and mixes in discovery
// posts from outside the viewer's follow network.
package feed

import "pawfeed/models"

// ContentType is derived from a post's media shape, never stored.
type ContentType string

const (
	ContentTypeVideo ContentType = "video"
	ContentTypePhoto ContentType = "photo"
	ContentTypeLink  ContentType = "link"
	ContentTypeText  ContentType = "text"
)

// Classify derives the content type of a post. Precedence is
// video > photo > link > text.
func Classify(post models.Post) ContentType {
	if post.Media != nil {
		if len(post.Media.Videos) > 0 {
			return ContentTypeVideo
		}
		if len(post.Media.Images) > 0 {
			return ContentTypePhoto
		}
		if len(post.Media.Links) > 0 {
			return ContentTypeLink
		}
	}
	return ContentTypeText
}
