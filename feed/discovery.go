package feed

import (
	"sort"

	"github.com/samber/lo"

	"pawfeed/models"
)

// DefaultDiscoveryPositions are the 1-based feed slots that receive
// discovery posts.
var DefaultDiscoveryPositions = []int{5, 15, 30, 50}

// VisibilityFunc reports whether the viewer may see a post. The predicate is
// supplied by the caller; the feed layer has no privacy rules of its own.
type VisibilityFunc func(post models.Post, viewer models.User) bool

// EngagementScore ranks discovery candidates: the summed sizes of all
// reaction buckets, or the like count when the post carries no reactions.
// Deliberately not normalized by post age, so the discovery slots surface
// all-time popular content from outside the follow network.
func EngagementScore(post models.Post) int {
	if len(post.Reactions) > 0 {
		total := 0
		for _, bucket := range post.Reactions {
			total += len(bucket)
		}
		return total
	}
	return len(post.Likes)
}

// discoveryEligible reports whether a post qualifies as discovery content
// for the viewer: visible, not self-authored, author not followed, and the
// subject pet not followed.
func discoveryEligible(post models.Post, viewer models.User, petsById map[string]models.Pet, canView VisibilityFunc) bool {
	if post.AuthorId == viewer.Id {
		return false
	}
	if canView != nil && !canView(post, viewer) {
		return false
	}
	if lo.Contains(viewer.Following, post.AuthorId) {
		return false
	}
	if pet, ok := petsById[post.PetId]; ok {
		if lo.Contains(viewer.FollowingPets, pet.Id) || lo.Contains(pet.Followers, viewer.Id) {
			return false
		}
	}
	return true
}

// InjectDiscovery inserts engagement-ranked discovery posts from pool into
// diversified at the given 1-based positions. Each candidate is used at most
// once; a candidate already present in the list is moved rather than
// duplicated; positions beyond the list length clamp to the end; when the
// pool runs out the remaining positions are skipped. The input slice is not
// mutated.
func InjectDiscovery(diversified []models.Post, pool []models.Post, viewer models.User, pets []models.Pet, positions []int, canView VisibilityFunc) []models.Post {
	out := append(make([]models.Post, 0, len(diversified)+len(positions)), diversified...)
	if len(pool) == 0 {
		return out
	}
	if len(positions) == 0 {
		positions = DefaultDiscoveryPositions
	}

	petsById := lo.KeyBy(pets, func(p models.Pet) string { return p.Id })

	candidates := lo.Filter(pool, func(p models.Post, _ int) bool {
		return discoveryEligible(p, viewer, petsById, canView)
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return EngagementScore(candidates[i]) > EngagementScore(candidates[j])
	})

	used := make(map[string]bool)
	next := 0
	for _, position := range positions {
		for next < len(candidates) && used[candidates[next].Id] {
			next++
		}
		if next >= len(candidates) {
			break
		}
		chosen := candidates[next]
		next++
		used[chosen.Id] = true

		// Move, never duplicate
		if existing := lo.IndexOf(lo.Map(out, func(p models.Post, _ int) string { return p.Id }), chosen.Id); existing >= 0 {
			out = append(out[:existing], out[existing+1:]...)
		}

		at := position - 1
		if at < 0 {
			at = 0
		}
		if at > len(out) {
			at = len(out)
		}
		out = append(out, models.Post{})
		copy(out[at+1:], out[at:])
		out[at] = chosen
	}

	return out
}

// DiversifyAndInject is the sequential composition of Diversify and
// InjectDiscovery, nothing more.
func DiversifyAndInject(posts []models.Post, pool []models.Post, viewer models.User, pets []models.Pet, positions []int, opts Options, canView VisibilityFunc) []models.Post {
	return InjectDiscovery(Diversify(posts, opts), pool, viewer, pets, positions, canView)
}
