package ingest_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawfeed/ingest"
	"pawfeed/models"
)

func TestParallelProcessorAcceptsAndAnnotates(t *testing.T) {
	postChan := make(chan interface{}, 10)
	pool := ingest.NewParallelProcessor(context.Background(), 1, 10, ingest.Config{}, postChan)
	defer pool.Shutdown()

	ok := pool.Submit(models.Post{
		AuthorId: "alice",
		Text:     "Biscuit finally learned how to fetch the newspaper",
	})
	require.True(t, ok)
	pool.Start()

	select {
	case event := <-postChan:
		created, ok := event.(models.CreatePostEvent)
		require.True(t, ok)
		assert.NotEmpty(t, created.Post.Id)
		assert.Equal(t, "public", created.Post.Privacy)
		assert.NotZero(t, created.Post.CreatedAt)
		assert.Equal(t, "alice", created.Post.AuthorId)
	case <-time.After(5 * time.Second):
		t.Fatal("expected an accepted post event")
	}
}

func TestParallelProcessorRejectsLowQualityPosts(t *testing.T) {
	postChan := make(chan interface{}, 10)
	pool := ingest.NewParallelProcessor(context.Background(), 1, 10, ingest.Config{}, postChan)
	defer pool.Shutdown()

	rejects := []models.Post{
		{AuthorId: "a", Text: "too short"},
		{AuthorId: "a", Text: "!!! ??? 123 456 789 000"},
		{AuthorId: "a", Text: "woof woof woof woof woof"},
		{AuthorId: "a", Text: "Free puppies DM me right now to claim"},
	}
	for _, post := range rejects {
		require.True(t, pool.Submit(post))
	}
	pool.Start()

	select {
	case event := <-postChan:
		t.Fatalf("expected no events, got %v", event)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestParallelProcessorQueueFull(t *testing.T) {
	postChan := make(chan interface{}, 1)
	// Never started, so the queue fills up
	pool := ingest.NewParallelProcessor(context.Background(), 1, 1, ingest.Config{}, postChan)
	defer pool.Shutdown()

	assert.True(t, pool.Submit(models.Post{AuthorId: "a", Text: "first post in the queue"}))
	assert.False(t, pool.Submit(models.Post{AuthorId: "a", Text: "second post gets dropped"}))
}

func TestParallelProcessorLanguageTagFilter(t *testing.T) {
	postChan := make(chan interface{}, 10)
	pool := ingest.NewParallelProcessor(context.Background(), 1, 10, ingest.Config{
		Languages: []string{"en"},
	}, postChan)
	defer pool.Shutdown()

	require.True(t, pool.Submit(models.Post{
		AuthorId:  "a",
		Text:      "Daisy chased squirrels around the park all afternoon",
		Languages: []string{"nb"},
	}))
	require.True(t, pool.Submit(models.Post{
		AuthorId:  "a",
		Text:      "Daisy chased squirrels around the park all afternoon",
		Languages: []string{"en"},
	}))
	pool.Start()

	select {
	case event := <-postChan:
		created, ok := event.(models.CreatePostEvent)
		require.True(t, ok)
		assert.Equal(t, []string{"en"}, created.Post.Languages)
	case <-time.After(5 * time.Second):
		t.Fatal("expected the english post to be accepted")
	}

	select {
	case event := <-postChan:
		t.Fatalf("expected only one accepted post, got %v", event)
	case <-time.After(500 * time.Millisecond):
	}
}
