package extractor

import (
	"regexp"
	"strings"
)

// fieldCutset matches the delimiter noise stripped from captured values:
// leading/trailing colons and whitespace left over from label prefixes.
const fieldCutset = ": \t\r\n\v\f"

// compilePatterns compiles an ordered list of field patterns with
// case-insensitive and multi-line matching. A malformed pattern is a broken
// pattern table, not bad input, so it panics at package init.
func compilePatterns(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		compiled[i] = regexp.MustCompile(`(?im)` + expr)
	}
	return compiled
}

// extractField tries each pattern in order and returns the first non-empty
// first capture group, trimmed of surrounding colons and whitespace. It
// short-circuits on the first success; later patterns are never consulted.
// Returns "" when nothing matches.
func extractField(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value == "" {
			continue
		}
		return strings.Trim(value, fieldCutset)
	}
	return ""
}
