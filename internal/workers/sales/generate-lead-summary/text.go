package generateleadsummary

import (
	"regexp"
	"strings"
)

var (
	summaryLabel        = regexp.MustCompile(`(?i)summary:`)
	recommendationLabel = regexp.MustCompile(`(?i)recommendations?:`)
	recommendationWord  = regexp.MustCompile(`(?i)recommendation`)

	edgeEmphasis = regexp.MustCompile(`^[\s*_]+|[\s*_]+$`)
	blankLines   = regexp.MustCompile(`\n[ \t\r]*\n(?:[ \t\r]*\n)*`)

	sentenceEnd  = regexp.MustCompile(`[.!?]\s+`)
	bulletMarker = regexp.MustCompile(`^(?:(?:[-•*+]|\d+[.)])\s*)+`)
)

// HighPriorityWarning heads the recommendation of a high-priority lead.
const HighPriorityWarning = "⚠️ High-priority lead!"

const bullet = "• "

// Extract splits a completion into its summary and recommendation sections.
//
// With a "Summary:" label the summary runs to the next "Recommendation(s):"
// label (or the end) and the recommendation is whatever follows that label.
// Without one the whole completion is the summary, split at an embedded
// recommendation label if there is one. Any "recommendation" left in the
// summary marks an unextracted section and the summary is cut there.
// Both results are cleaned; missing sections come back empty.
func Extract(completion string) (summary, recommendation string) {
	text := strings.TrimSpace(completion)

	var rawSummary, rawRecommendation string
	if loc := summaryLabel.FindStringIndex(text); loc != nil {
		rest := text[loc[1]:]
		if r := recommendationLabel.FindStringIndex(rest); r != nil {
			rawSummary, rawRecommendation = rest[:r[0]], rest[r[1]:]
		} else {
			rawSummary = rest
			// Recommendation written ahead of the summary.
			if r := recommendationLabel.FindStringIndex(text[:loc[0]]); r != nil {
				rawRecommendation = text[r[1]:loc[0]]
			}
		}
	} else {
		rawSummary = text
		if r := recommendationLabel.FindStringIndex(text); r != nil {
			rawSummary, rawRecommendation = text[:r[0]], text[r[1]:]
		}
	}

	summary = Clean(rawSummary)
	if loc := recommendationWord.FindStringIndex(summary); loc != nil {
		summary = Clean(summary[:loc[0]])
	}
	return summary, Clean(rawRecommendation)
}

// Clean trims whitespace and emphasis markers from both ends and collapses
// runs of blank lines into one blank line. Clean(Clean(s)) == Clean(s).
func Clean(text string) string {
	text = edgeEmphasis.ReplaceAllString(text, "")
	return blankLines.ReplaceAllString(text, "\n\n")
}

// FormatBullets turns a recommendation into one "• " line per unit. Lines are
// units first, and each line is further split after sentence punctuation.
// Existing bullet or numbering markers are dropped, as are empty units.
func FormatBullets(text string) string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		for _, unit := range splitSentences(line) {
			unit = strings.TrimSpace(bulletMarker.ReplaceAllString(strings.TrimSpace(unit), ""))
			if unit == "" {
				continue
			}
			bullets = append(bullets, bullet+unit)
		}
	}
	return strings.Join(bullets, "\n")
}

func splitSentences(line string) []string {
	var units []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(line, -1) {
		units = append(units, line[start:loc[0]+1])
		start = loc[1]
	}
	return append(units, line[start:])
}

// WithPriorityWarning prepends the high-priority warning line when flagged.
func WithPriorityWarning(recommendation string, highPriority bool) string {
	if !highPriority {
		return recommendation
	}
	return HighPriorityWarning + "\n" + recommendation
}

// NormalizeKey collapses repeated "<namespace>::" prefixes on a lead id so
// "lead::lead::42" and "lead::42" address the same document. It is idempotent.
func NormalizeKey(leadID, namespace string) string {
	if namespace == "" {
		return leadID
	}
	prefix := namespace + "::"
	key := leadID
	for strings.HasPrefix(key, prefix+prefix) {
		key = key[len(prefix):]
	}
	return key
}
