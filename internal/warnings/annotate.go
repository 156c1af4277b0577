package warnings

import (
	"strings"
	"unicode"
)

// legacyPrefix marks warning blocks written by an earlier generation of this
// tool, which used a bare "doesthedogdie:" line instead of a separator banner.
const legacyPrefix = "doesthedogdie:"

// Strip removes a previously appended warning block from a summary.
//
// Everything before the first separator occurrence is kept, right-trimmed.
// When no separator is present, a case-insensitive scan for the legacy prefix
// handles blocks written by older releases. Strip is idempotent.
func Strip(summary, separator string) string {
	if separator != "" {
		if idx := strings.Index(summary, separator); idx >= 0 {
			return strings.TrimRightFunc(summary[:idx], unicode.IsSpace)
		}
	}

	lines := strings.Split(summary, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), legacyPrefix) {
			return strings.TrimRightFunc(strings.Join(lines[:i], "\n"), unicode.IsSpace)
		}
	}
	return summary
}

// Apply strips any existing block from summary and, when warningText is
// non-empty, appends the separator and the rendered warnings. Applying the
// same warning text twice yields the same result as applying it once.
func Apply(summary, warningText, separator string) string {
	clean := Strip(summary, separator)
	if warningText == "" {
		return clean
	}
	return clean + separator + "\n" + warningText
}
