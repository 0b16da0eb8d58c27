package feeds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pawfeed/feeds"
	"pawfeed/models"
)

func TestCanViewPost(t *testing.T) {
	viewer := models.User{Id: "viewer", Following: []string{"friend"}}

	tests := []struct {
		name     string
		post     models.Post
		expected bool
	}{
		{
			name:     "public post",
			post:     models.Post{AuthorId: "stranger", Privacy: "public"},
			expected: true,
		},
		{
			name:     "missing privacy defaults to public",
			post:     models.Post{AuthorId: "stranger"},
			expected: true,
		},
		{
			name:     "followers post from followed author",
			post:     models.Post{AuthorId: "friend", Privacy: "followers"},
			expected: true,
		},
		{
			name:     "followers post from stranger",
			post:     models.Post{AuthorId: "stranger", Privacy: "followers"},
			expected: false,
		},
		{
			name:     "own followers post",
			post:     models.Post{AuthorId: "viewer", Privacy: "followers"},
			expected: true,
		},
		{
			name:     "own private post",
			post:     models.Post{AuthorId: "viewer", Privacy: "private"},
			expected: true,
		},
		{
			name:     "private post from friend",
			post:     models.Post{AuthorId: "friend", Privacy: "private"},
			expected: false,
		},
		{
			name:     "unknown privacy value",
			post:     models.Post{AuthorId: "friend", Privacy: "secret"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, feeds.CanViewPost(tt.post, viewer))
		})
	}
}

func TestVisibilityFilter(t *testing.T) {
	viewer := models.User{Id: "viewer", Following: []string{"friend"}}
	posts := []models.Post{
		{Id: "1", AuthorId: "stranger", Privacy: "public"},
		{Id: "2", AuthorId: "stranger", Privacy: "followers"},
		{Id: "3", AuthorId: "friend", Privacy: "followers"},
	}

	filter := &feeds.VisibilityFilter{}
	visible := filter.Apply(posts, viewer)

	assert.Len(t, visible, 2)
	assert.Equal(t, "1", visible[0].Id)
	assert.Equal(t, "3", visible[1].Id)
}

func TestPublicOnlyFilter(t *testing.T) {
	viewer := models.User{Id: "viewer", Following: []string{"friend"}}
	posts := []models.Post{
		{Id: "1", AuthorId: "friend", Privacy: "public"},
		{Id: "2", AuthorId: "friend", Privacy: "followers"},
		{Id: "3", AuthorId: "friend", Privacy: "private"},
	}

	filter := &feeds.PublicOnlyFilter{}
	visible := filter.Apply(posts, viewer)

	assert.Len(t, visible, 1)
	assert.Equal(t, "1", visible[0].Id)
}
