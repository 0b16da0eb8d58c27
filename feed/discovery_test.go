package feed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawfeed/feed"
	"pawfeed/models"
)

func ids(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, post := range posts {
		out[i] = post.Id
	}
	return out
}

func likedPost(id, author string, likes int) models.Post {
	post := textPost(id, author)
	for i := 0; i < likes; i++ {
		post.Likes = append(post.Likes, "liker")
	}
	return post
}

func publicOnly(post models.Post, _ models.User) bool {
	return post.Privacy != "private"
}

func TestEngagementScore(t *testing.T) {
	assert.Equal(t, 0, feed.EngagementScore(models.Post{}))
	assert.Equal(t, 3, feed.EngagementScore(likedPost("1", "a", 3)))

	// Reactions take precedence over likes when present
	withReactions := likedPost("2", "a", 7)
	withReactions.Reactions = map[string][]string{
		"paw":   {"u1", "u2"},
		"heart": {"u3"},
	}
	assert.Equal(t, 3, feed.EngagementScore(withReactions))
}

func TestInjectDiscoveryEmptyPool(t *testing.T) {
	viewer := models.User{Id: "viewer"}
	diversified := []models.Post{textPost("1", "friend"), textPost("2", "friend")}

	result := feed.InjectDiscovery(diversified, nil, viewer, nil, nil, nil)
	assert.Equal(t, diversified, result)
}

func TestInjectDiscoveryRanksByEngagement(t *testing.T) {
	viewer := models.User{Id: "viewer"}
	diversified := []models.Post{textPost("f1", "friend")}
	pool := []models.Post{
		likedPost("d1", "stranger1", 1),
		likedPost("d2", "stranger2", 10),
		likedPost("d3", "stranger3", 5),
	}

	result := feed.InjectDiscovery(diversified, pool, viewer, nil, []int{1, 2, 3}, nil)

	require.Len(t, result, 4)
	assert.Equal(t, []string{"d2", "d3", "d1", "f1"}, ids(result))
}

func TestInjectDiscoveryEligibility(t *testing.T) {
	viewer := models.User{
		Id:            "viewer",
		Following:     []string{"friend"},
		FollowingPets: []string{"pet-followed"},
	}
	pets := []models.Pet{
		{Id: "pet-followed", OwnerId: "stranger1"},
		{Id: "pet-fan", OwnerId: "stranger2", Followers: []string{"viewer"}},
		{Id: "pet-new", OwnerId: "stranger3"},
	}

	own := textPost("own", "viewer")
	byFriend := textPost("friend-post", "friend")
	private := textPost("private", "stranger4")
	private.Privacy = "private"
	followedPet := textPost("followed-pet", "stranger1")
	followedPet.PetId = "pet-followed"
	fanPet := textPost("fan-pet", "stranger2")
	fanPet.PetId = "pet-fan"
	eligible := textPost("eligible", "stranger3")
	eligible.PetId = "pet-new"

	pool := []models.Post{own, byFriend, private, followedPet, fanPet, eligible}
	diversified := []models.Post{textPost("f1", "friend")}

	result := feed.InjectDiscovery(diversified, pool, viewer, pets, []int{1, 2, 3, 4}, publicOnly)

	require.Len(t, result, 2)
	assert.Equal(t, "eligible", result[0].Id)
	assert.Equal(t, "f1", result[1].Id)
}

func TestInjectDiscoveryClampsPosition(t *testing.T) {
	viewer := models.User{Id: "viewer"}
	diversified := []models.Post{textPost("f1", "friend"), textPost("f2", "friend")}
	pool := []models.Post{likedPost("d1", "stranger", 2)}

	result := feed.InjectDiscovery(diversified, pool, viewer, nil, []int{50}, nil)

	require.Len(t, result, 3)
	assert.Equal(t, []string{"f1", "f2", "d1"}, ids(result))
}

func TestInjectDiscoveryMovesInsteadOfDuplicating(t *testing.T) {
	viewer := models.User{Id: "viewer"}
	shared := likedPost("shared", "stranger", 9)
	diversified := []models.Post{textPost("f1", "friend"), shared, textPost("f2", "friend")}
	pool := []models.Post{shared}

	result := feed.InjectDiscovery(diversified, pool, viewer, nil, []int{1}, nil)

	require.Len(t, result, 3)
	assert.Equal(t, []string{"shared", "f1", "f2"}, ids(result))
}

func TestInjectDiscoverySkipsPositionsWhenPoolExhausted(t *testing.T) {
	viewer := models.User{Id: "viewer"}
	diversified := []models.Post{textPost("f1", "friend"), textPost("f2", "friend")}
	pool := []models.Post{likedPost("d1", "stranger", 1)}

	result := feed.InjectDiscovery(diversified, pool, viewer, nil, []int{1, 2, 3}, nil)

	require.Len(t, result, 3)
	assert.Equal(t, []string{"d1", "f1", "f2"}, ids(result))
}

func TestInjectDiscoveryUsesEachCandidateOnce(t *testing.T) {
	viewer := models.User{Id: "viewer"}
	diversified := []models.Post{textPost("f1", "friend")}
	// The same post appears twice in the pool; it must only be injected once.
	dup := likedPost("d1", "stranger", 4)
	pool := []models.Post{dup, dup, likedPost("d2", "stranger2", 1)}

	result := feed.InjectDiscovery(diversified, pool, viewer, nil, []int{1, 2, 3}, nil)

	require.Len(t, result, 3)
	assert.Equal(t, []string{"d1", "d2", "f1"}, ids(result))
}

func TestInjectDiscoveryDoesNotMutateInput(t *testing.T) {
	viewer := models.User{Id: "viewer"}
	diversified := []models.Post{textPost("f1", "friend"), textPost("f2", "friend")}
	pool := []models.Post{likedPost("d1", "stranger", 1)}

	feed.InjectDiscovery(diversified, pool, viewer, nil, []int{1}, nil)

	assert.Equal(t, []string{"f1", "f2"}, ids(diversified))
}
