package app

import "strings"

const maxTracedQueryLength = 512

// traceQuery collapses whitespace in generated SQL and caps its length so
// span attributes stay readable.
func traceQuery(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
