package diff

import (
	"fmt"
	"strings"
)

// Summary tallies blocks per type and renders a one-sentence description.
// Counts are block counts, not line counts.
type Summary struct {
	Added       int    `json:"added"`
	Removed     int    `json:"removed"`
	Modified    int    `json:"modified"`
	Unchanged   int    `json:"unchanged"`
	TotalBlocks int    `json:"totalBlocks"`
	Description string `json:"description"`
}

// Summarize tallies the blocks and renders a comma-joined English sentence,
// e.g. "2 blocks added, 1 block removed." When nothing changed the
// description is exactly "No changes.".
func Summarize(blocks []Block) Summary {
	summary := Summary{TotalBlocks: len(blocks)}
	for _, block := range blocks {
		switch block.Type {
		case BlockAdded:
			summary.Added++
		case BlockRemoved:
			summary.Removed++
		case BlockModified:
			summary.Modified++
		case BlockUnchanged:
			summary.Unchanged++
		}
	}

	var parts []string
	if summary.Added > 0 {
		parts = append(parts, countPhrase(summary.Added, "added"))
	}
	if summary.Removed > 0 {
		parts = append(parts, countPhrase(summary.Removed, "removed"))
	}
	if summary.Modified > 0 {
		parts = append(parts, countPhrase(summary.Modified, "modified"))
	}

	if len(parts) == 0 {
		summary.Description = "No changes."
	} else {
		summary.Description = strings.Join(parts, ", ") + "."
	}
	return summary
}

func countPhrase(count int, verb string) string {
	noun := "block"
	if count != 1 {
		noun = "blocks"
	}
	return fmt.Sprintf("%d %s %s", count, noun, verb)
}
