package warnings

import (
	"strings"

	"dogwatch/internal/dtdd"
)

const (
	warningGlyph = "⚠️  "
	safeGlyph    = "✅  "
	topicJoiner  = " · "
)

// Thresholds controls when a topic's crowd votes become a warning.
type Thresholds struct {
	// MinYesVotes is the minimum absolute yes count for a warning.
	MinYesVotes int
	// MinYesRatio is the minimum yes/(yes+no) fraction for a warning.
	MinYesRatio float64
	// IncludeSafeTopics adds a second line for topics the crowd voted
	// "does not happen", using the topic's inverted name.
	IncludeSafeTopics bool
}

// Classify converts a media record's vote statistics into rendered warning
// text. The empty string means no topic cleared the thresholds and no
// annotation should be written.
func Classify(record *dtdd.MediaRecord, thresholds Thresholds) string {
	if record == nil {
		return ""
	}

	var warn, safe []string
	for _, stat := range record.TopicItemStats {
		total := stat.YesSum + stat.NoSum
		if total == 0 || stat.Topic.Name == "" {
			continue
		}

		ratio := float64(stat.YesSum) / float64(total)
		switch {
		case ratio >= thresholds.MinYesRatio && stat.YesSum >= thresholds.MinYesVotes:
			warn = append(warn, stat.Topic.Name)
		case thresholds.IncludeSafeTopics && (1-ratio) >= thresholds.MinYesRatio && stat.NoSum >= thresholds.MinYesVotes:
			safe = append(safe, stat.Topic.NotName)
		}
	}

	if len(warn) == 0 && len(safe) == 0 {
		return ""
	}

	var lines []string
	if len(warn) > 0 {
		lines = append(lines, warningGlyph+strings.Join(warn, topicJoiner))
	}
	if len(safe) > 0 {
		lines = append(lines, safeGlyph+strings.Join(safe, topicJoiner))
	}
	return strings.Join(lines, "\n")
}
