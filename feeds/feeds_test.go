package feeds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawfeed/config"
	"pawfeed/feeds"
	"pawfeed/models"
)

func TestInitializeFeeds(t *testing.T) {
	cfg := &config.TomlConfig{
		Feeds: []config.TomlFeed{
			{
				Id:              "all-pets",
				DisplayName:     "All pets",
				Description:     "Every public pet post",
				PublicOnly:      true,
				InjectDiscovery: true,
			},
			{
				Id:          "norwegian-pets",
				DisplayName: "Norske dyr",
				Languages:   []string{"nb", "nn"},
				WindowSize:  5,
			},
		},
	}

	feedMap := feeds.InitializeFeeds(cfg)
	require.Len(t, feedMap, 2)

	allPets := feedMap["all-pets"]
	assert.Equal(t, "All pets", allPets.DisplayName)
	assert.True(t, allPets.InjectDiscovery)
	assert.Len(t, allPets.Filters, 2)

	norwegian := feedMap["norwegian-pets"]
	assert.Equal(t, []string{"nb", "nn"}, norwegian.Languages)
	assert.Equal(t, 5, norwegian.Diversity.WindowSize)
	assert.Len(t, norwegian.Filters, 1)
}

func TestFeedGenerateFiltersAndDiversifies(t *testing.T) {
	cfg := &config.TomlConfig{
		Feeds: []config.TomlFeed{
			{Id: "home", PublicOnly: true},
		},
	}
	feed := feeds.InitializeFeeds(cfg)["home"]

	viewer := models.User{Id: "viewer"}
	candidates := []models.Post{
		{Id: "1", AuthorId: "alice", Privacy: "public", Text: "one"},
		{Id: "2", AuthorId: "bob", Privacy: "private", Text: "hidden"},
		{Id: "3", AuthorId: "carol", Privacy: "public", Text: "three"},
	}

	result := feed.Generate(candidates, candidates, viewer, nil)

	require.Len(t, result, 2)
	assert.Equal(t, "1", result[0].Id)
	assert.Equal(t, "3", result[1].Id)
}

func TestFeedGenerateInjectsDiscovery(t *testing.T) {
	cfg := &config.TomlConfig{
		Feeds: []config.TomlFeed{
			{Id: "home", InjectDiscovery: true, DiscoveryPositions: []int{1}},
		},
	}
	feed := feeds.InitializeFeeds(cfg)["home"]

	viewer := models.User{Id: "viewer", Following: []string{"friend"}}
	candidates := []models.Post{
		{Id: "f1", AuthorId: "friend", Privacy: "public", Text: "from a friend"},
	}
	pool := append(candidates, models.Post{
		Id: "d1", AuthorId: "stranger", Privacy: "public", Text: "discovery", Likes: []string{"u1"},
	})

	result := feed.Generate(candidates, pool, viewer, nil)

	require.Len(t, result, 2)
	assert.Equal(t, "d1", result[0].Id)
	assert.Equal(t, "f1", result[1].Id)
}
