package feed_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawfeed/feed"
	"pawfeed/models"
)

func textPost(id, author string) models.Post {
	return models.Post{Id: id, AuthorId: author, Text: "post " + id}
}

func photoPost(id, author string) models.Post {
	return models.Post{Id: id, AuthorId: author, Media: &models.Media{Images: []string{id + ".jpg"}}}
}

// assertPermutation checks that got contains exactly the same posts as want,
// in any order.
func assertPermutation(t *testing.T, want, got []models.Post) {
	t.Helper()
	require.Len(t, got, len(want))

	wantIds := make([]string, len(want))
	gotIds := make([]string, len(got))
	for i := range want {
		wantIds[i] = want[i].Id
		gotIds[i] = got[i].Id
	}
	sort.Strings(wantIds)
	sort.Strings(gotIds)
	assert.Equal(t, wantIds, gotIds)
}

// maxAuthorCountInWindows returns the highest number of appearances of any
// single author within any windowSize-wide slice of posts.
func maxAuthorCountInWindows(posts []models.Post, windowSize int) int {
	highest := 0
	for start := 0; start < len(posts); start++ {
		end := start + windowSize
		if end > len(posts) {
			end = len(posts)
		}
		counts := make(map[string]int)
		for _, post := range posts[start:end] {
			counts[post.AuthorId]++
			if counts[post.AuthorId] > highest {
				highest = counts[post.AuthorId]
			}
		}
	}
	return highest
}

// longestTypeRun returns the longest run of consecutive posts sharing a
// content type.
func longestTypeRun(posts []models.Post) int {
	longest := 0
	run := 0
	var last feed.ContentType
	for i, post := range posts {
		ct := feed.Classify(post)
		if i > 0 && ct == last {
			run++
		} else {
			run = 1
			last = ct
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func TestDiversifySmallInputs(t *testing.T) {
	assert.Empty(t, feed.Diversify(nil, feed.DefaultOptions()))

	single := []models.Post{textPost("1", "alice")}
	assert.Equal(t, single, feed.Diversify(single, feed.DefaultOptions()))
}

func TestDiversifyIsAlwaysAPermutation(t *testing.T) {
	posts := []models.Post{}
	for i := 0; i < 30; i++ {
		posts = append(posts, textPost(fmt.Sprintf("%d", i), fmt.Sprintf("author-%d", i%3)))
	}

	result := feed.Diversify(posts, feed.DefaultOptions())
	assertPermutation(t, posts, result)
}

func TestDiversifySpacesOutDominantAuthor(t *testing.T) {
	// 6 posts by alice followed by 6 posts by others. With a window of 4 and
	// a per-author cap of 1 there are enough other authors to fully satisfy
	// the bound.
	posts := []models.Post{}
	for i := 0; i < 6; i++ {
		posts = append(posts, textPost(fmt.Sprintf("a%d", i), "alice"))
	}
	for i := 0; i < 6; i++ {
		posts = append(posts, textPost(fmt.Sprintf("o%d", i), fmt.Sprintf("other-%d", i)))
	}

	opts := feed.Options{WindowSize: 4, MaxPerAuthorInWindow: 1, MaxSameTypeRun: 100}
	result := feed.Diversify(posts, opts)

	assertPermutation(t, posts, result)
	// 12 posts, 7 authors, cap 1 per window of 4: satisfiable up to the tail
	// where only alice posts remain. Her posts should at least never be
	// adjacent before the forced tail; verify the bound holds much better
	// than the input's run of 6.
	assert.LessOrEqual(t, maxAuthorCountInWindows(result[:8], opts.WindowSize), 1)
}

func TestDiversifyHomogeneousAuthorFallsBack(t *testing.T) {
	// Every post by the same author: the bound is unsatisfiable, so the
	// fallback must emit all posts in their original order.
	posts := []models.Post{}
	for i := 0; i < 8; i++ {
		posts = append(posts, textPost(fmt.Sprintf("%d", i), "alice"))
	}

	result := feed.Diversify(posts, feed.DefaultOptions())
	assert.Equal(t, posts, result)
}

func TestDiversifyBreaksUpTypeRuns(t *testing.T) {
	// 6 photos then 6 text posts, all by distinct authors so only the type
	// constraint is in play.
	posts := []models.Post{}
	for i := 0; i < 6; i++ {
		posts = append(posts, photoPost(fmt.Sprintf("p%d", i), fmt.Sprintf("pa-%d", i)))
	}
	for i := 0; i < 6; i++ {
		posts = append(posts, textPost(fmt.Sprintf("t%d", i), fmt.Sprintf("ta-%d", i)))
	}

	opts := feed.Options{WindowSize: 10, MaxPerAuthorInWindow: 3, MaxSameTypeRun: 2}
	result := feed.Diversify(posts, opts)

	assertPermutation(t, posts, result)
	assert.LessOrEqual(t, longestTypeRun(result), 2)
}

func TestDiversifyRelativeOrderPreservedWhenUnconstrained(t *testing.T) {
	posts := []models.Post{
		textPost("1", "alice"),
		photoPost("2", "bob"),
		textPost("3", "carol"),
		photoPost("4", "dave"),
	}

	result := feed.Diversify(posts, feed.DefaultOptions())
	assert.Equal(t, posts, result)
}

func TestDiversifyZeroOptionsUseDefaults(t *testing.T) {
	posts := []models.Post{}
	for i := 0; i < 8; i++ {
		posts = append(posts, textPost(fmt.Sprintf("%d", i), "alice"))
		posts = append(posts, photoPost(fmt.Sprintf("b%d", i), "bob"))
	}

	result := feed.Diversify(posts, feed.Options{})

	assertPermutation(t, posts, result)
	assert.Equal(t, feed.Diversify(posts, feed.DefaultOptions()), result)
}
