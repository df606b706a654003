package sheet

import (
	"strconv"
	"strings"
	"time"
)

// Cell codecs. Every field crosses the store boundary as a string; these
// helpers keep the conversions in one place and make malformed cells
// degrade to zero values instead of failing a whole table read. A hand-
// edited spreadsheet cell should never take the marketplace down.

func parseIntCell(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func intCell(n int) string {
	return strconv.Itoa(n)
}

func parseBoolCell(s string) bool {
	return strings.TrimSpace(s) == "true"
}

func boolCell(b bool) string {
	return strconv.FormatBool(b)
}

func parseTimeCell(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

func timeCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
