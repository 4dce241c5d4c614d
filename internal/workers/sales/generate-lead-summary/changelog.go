package generateleadsummary

import (
	"fmt"
	"strings"

	"lead-summarizer/internal/models"
)

// NoPriorChanges stands in for an empty change log inside the prompt.
const NoPriorChanges = "No prior changes recorded."

// RenderChangeLog writes one "- field: was 'old' (as of date)" line per entry
// in the order the caller supplied them. An empty log renders as "".
func RenderChangeLog(changes models.ChangeLog) string {
	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		lines = append(lines, fmt.Sprintf("- %s: was '%s' (as of %s)", c.Field, c.OldValueText(), c.AuditDate))
	}
	return strings.Join(lines, "\n")
}
