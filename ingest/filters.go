package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// HasEnoughLetters rejects posts that are mostly symbols, digits or emoji.
func HasEnoughLetters(text string) bool {
	if len(text) == 0 {
		return false
	}

	letterCount := 0
	for _, char := range text {
		if unicode.IsLetter(char) {
			letterCount++
		}
	}

	// If less than 30% of the text is letters, skip it
	ratio := float64(letterCount) / float64(len(text))
	return ratio > 0.30
}

// ContainsRepetitivePattern detects character and phrase repetition, the
// usual shape of flood posts.
func ContainsRepetitivePattern(text string) bool {
	// Convert to lowercase for consistent matching
	text = strings.ToLower(text)

	// Remove spaces for pattern detection
	text = strings.ReplaceAll(text, " ", "")

	if len(text) < 4 {
		return false
	}

	// Split text into grapheme clusters (complete Unicode symbols)
	clusters := []string{}
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError {
			i++
			continue
		}

		// Handle emoji modifiers and zero-width joiners
		cluster := string(r)
		i += size
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if r == utf8.RuneError {
				break
			}
			if unicode.Is(unicode.Mn, r) || // Modifier
				r == '\u200d' || // Zero-width joiner
				r == '\ufe0f' { // Variation selector
				cluster += string(r)
				i += size
				continue
			}
			break
		}
		clusters = append(clusters, cluster)
	}

	// Check for repeating clusters
	repeatingClusters := 0
	lastCluster := ""
	for _, cluster := range clusters {
		if cluster == lastCluster {
			repeatingClusters++
			if repeatingClusters >= 4 {
				return true
			}
		} else {
			repeatingClusters = 1
			lastCluster = cluster
		}
	}

	// Check for repeating patterns up to 8 clusters long
	for patternLen := 2; patternLen <= 8; patternLen++ {
		if len(clusters) < patternLen*2 {
			continue
		}

		for i := 0; i <= len(clusters)-patternLen*2; i++ {
			pattern := clusters[i : i+patternLen]
			repeats := 1

			for j := i + patternLen; j <= len(clusters)-patternLen; j += patternLen {
				matches := true
				for k := 0; k < patternLen; k++ {
					if clusters[j+k] != pattern[k] {
						matches = false
						break
					}
				}
				if matches {
					repeats++
					// Require fewer repeats for longer patterns
					minRepeats := 4
					if patternLen >= 4 {
						minRepeats = 2
					}
					if repeats >= minRepeats {
						return true
					}
				} else {
					break
				}
			}
		}
	}

	return false
}

// ContainsSpamContent flags the spam shapes that show up in a pet network:
// follow-trains, puppy scams, adult content and hashtag stuffing.
func ContainsSpamContent(text string) bool {
	lowerText := strings.ToLower(text)

	spamPatterns := []string{
		"join my vip",
		"subscribe to my",
		"check my profile",
		"check my bio",
		"link in bio",
		"link in profile",
		"follow me",
		"follow back",
		"follow for follow",
		"f4f",
		"free puppies dm",
		"puppies for sale dm",
		"cashapp",
		"dm to claim",
	}

	// Adult content terms - keep this minimal to avoid false positives
	nsfwTerms := []string{
		"porn",
		"xxx",
		"nsfw",
		"18+",
		"onlyfans.com",
	}

	for _, pattern := range spamPatterns {
		if strings.Contains(lowerText, pattern) {
			return true
		}
	}

	for _, term := range nsfwTerms {
		if strings.Contains(lowerText, term) {
			return true
		}
	}

	// Excessive emoji spam
	emojiCount := 0
	for _, r := range text {
		if r >= 0x1F300 {
			emojiCount++
			if emojiCount > 8 {
				return true
			}
		}
	}

	hashtagCount := strings.Count(text, "#")
	mentionCount := strings.Count(text, "@")

	if hashtagCount > 5 {
		return true
	}

	if mentionCount > 5 {
		return true
	}

	// Repeated hashtags or mentions are a common spam pattern
	if strings.Count(text, "##") > 0 || strings.Count(text, "@@") > 0 {
		return true
	}

	words := strings.Fields(text)
	if len(words) > 0 {
		symbolRatio := float64(hashtagCount+mentionCount) / float64(len(words))
		// If more than 50% of words are hashtags or mentions, consider it spam
		if symbolRatio > 0.5 {
			return true
		}
	}

	return false
}
