package feeds

import (
	"github.com/samber/lo"

	"pawfeed/models"
)

// FilterStrategy narrows a candidate list for a viewer before the
// diversify/inject pipeline runs.
type FilterStrategy interface {
	Apply(posts []models.Post, viewer models.User) []models.Post
}

// CanViewPost is the visibility predicate handed to the discovery injector:
// public posts are visible to everyone, followers-only posts to the author's
// followers and the author, private posts to the author alone.
func CanViewPost(post models.Post, viewer models.User) bool {
	switch post.Privacy {
	case "", "public":
		return true
	case "followers":
		return post.AuthorId == viewer.Id || lo.Contains(viewer.Following, post.AuthorId)
	case "private":
		return post.AuthorId == viewer.Id
	default:
		return false
	}
}

// VisibilityFilter drops posts the viewer may not see.
type VisibilityFilter struct{}

func (f *VisibilityFilter) Apply(posts []models.Post, viewer models.User) []models.Post {
	return lo.Filter(posts, func(post models.Post, _ int) bool {
		return CanViewPost(post, viewer)
	})
}

// PublicOnlyFilter keeps only public posts, regardless of viewer.
type PublicOnlyFilter struct{}

func (f *PublicOnlyFilter) Apply(posts []models.Post, _ models.User) []models.Post {
	return lo.Filter(posts, func(post models.Post, _ int) bool {
		return post.Privacy == "" || post.Privacy == "public"
	})
}

var _ FilterStrategy = (*VisibilityFilter)(nil)
var _ FilterStrategy = (*PublicOnlyFilter)(nil)
