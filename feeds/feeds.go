// Package feeds turns the TOML configuration into runtime feed instances
// that combine candidate filtering with the diversify/inject pipeline.
package feeds

import (
	"pawfeed/config"
	"pawfeed/feed"
	"pawfeed/models"
)

// Feed represents a runtime feed instance
type Feed struct {
	Id                 string
	DisplayName        string
	Description        string
	Languages          []string
	Diversity          feed.Options
	DiscoveryPositions []int
	InjectDiscovery    bool
	Filters            []FilterStrategy
}

// Generate produces the final ordering for a viewer: filter, diversify and,
// when enabled, inject discovery posts from the full candidate pool.
func (f *Feed) Generate(candidates []models.Post, pool []models.Post, viewer models.User, pets []models.Pet) []models.Post {
	visible := candidates
	for _, filter := range f.Filters {
		visible = filter.Apply(visible, viewer)
	}

	diversified := feed.Diversify(visible, f.Diversity)
	if !f.InjectDiscovery {
		return diversified
	}

	return feed.InjectDiscovery(diversified, pool, viewer, pets, f.DiscoveryPositions, CanViewPost)
}

// InitializeFeeds builds the feed map from configuration.
func InitializeFeeds(cfg *config.TomlConfig) map[string]Feed {
	feedMap := make(map[string]Feed)

	for _, feedCfg := range cfg.Feeds {
		filters := []FilterStrategy{&VisibilityFilter{}}
		if feedCfg.PublicOnly {
			filters = append(filters, &PublicOnlyFilter{})
		}

		feedMap[feedCfg.Id] = Feed{
			Id:          feedCfg.Id,
			DisplayName: feedCfg.DisplayName,
			Description: feedCfg.Description,
			Languages:   feedCfg.Languages,
			Diversity: feed.Options{
				WindowSize:           feedCfg.WindowSize,
				MaxPerAuthorInWindow: feedCfg.MaxPerAuthor,
				MaxSameTypeRun:       feedCfg.MaxSameTypeRun,
			},
			DiscoveryPositions: feedCfg.DiscoveryPositions,
			InjectDiscovery:    feedCfg.InjectDiscovery,
			Filters:            filters,
		}
	}

	return feedMap
}
