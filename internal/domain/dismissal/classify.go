package dismissal

import (
	"strings"
)

// Classify parses a free-text scorecard status such as "c Sharma b Kumar" into a HowOut.
// Matching is case-insensitive and first match wins, so "not out" anywhere in the
// text (as in "retired not out") is never a dismissal. Unrecognized text never
// fails: it degrades to KindUnknown with the original text preserved.
func Classify(status string) HowOut {
	original := strings.TrimSpace(status)
	text := normalize(original)
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "not out"):
		return HowOut{Out: false, Kind: KindNotOut}
	case strings.HasPrefix(lower, "c ") && indexFold(text, " b ") > 0:
		sep := indexFold(text, " b ")
		return HowOut{
			Out:     true,
			Kind:    KindCaught,
			Fielder: cleanName(text[2:sep]),
			Bowler:  cleanName(text[sep+3:]),
		}
	case strings.HasPrefix(lower, "c "):
		return HowOut{Out: true, Kind: KindCaught, Fielder: cleanName(text[2:])}
	case strings.HasPrefix(lower, "b "):
		return HowOut{Out: true, Kind: KindBowled, Bowler: cleanName(text[2:])}
	case strings.Contains(lower, "run out"):
		return HowOut{Out: true, Kind: KindRunOut, Fielder: runOutFielder(text)}
	case strings.HasPrefix(lower, "lbw"):
		out := HowOut{Out: true, Kind: KindLBW}
		if idx := indexFold(text, "b "); idx >= 0 {
			out.Bowler = cleanName(text[idx+2:])
		}
		return out
	case strings.Contains(lower, "c&b"):
		bowler := cleanName(text[indexFold(text, "c&b")+3:])
		return HowOut{Out: true, Kind: KindCaughtAndBowled, Fielder: bowler, Bowler: bowler}
	case strings.HasPrefix(lower, "st ") && indexFold(text, " b ") > 0:
		sep := indexFold(text, " b ")
		return HowOut{
			Out:     true,
			Kind:    KindStumped,
			Fielder: cleanName(text[3:sep]),
			Bowler:  cleanName(text[sep+3:]),
		}
	case strings.Contains(lower, "retired"):
		if strings.Contains(lower, "hurt") {
			return HowOut{Out: true, Kind: KindRetiredHurt}
		}
		return HowOut{Out: true, Kind: KindRetiredOut}
	default:
		return HowOut{Out: true, Kind: KindUnknown, Original: original}
	}
}

// Fielders splits a shared run-out credit such as "Patel/Sharma" into individual names.
func Fielders(raw string) []string {
	parts := strings.Split(raw, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		name := cleanName(part)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// normalize collapses whitespace and folds the "c & b" spelling into "c&b".
func normalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if idx := indexFold(s, "c & b"); idx >= 0 {
		s = s[:idx] + "c&b" + s[idx+len("c & b"):]
	}
	return s
}

func runOutFielder(text string) string {
	open := strings.Index(text, "(")
	if open >= 0 {
		rest := text[open+1:]
		if end := strings.Index(rest, ")"); end >= 0 {
			return cleanName(rest[:end])
		}
		return cleanName(rest)
	}

	idx := indexFold(text, "run out")
	return cleanName(text[idx+len("run out"):])
}

// cleanName strips keeper and substitute markers that scorecards decorate names with.
func cleanName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "†*")
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "sub (") && strings.HasSuffix(s, ")") {
		s = s[len("sub (") : len(s)-1]
	} else if strings.HasPrefix(lower, "sub ") {
		s = s[len("sub "):]
	}
	return strings.TrimSpace(s)
}

// indexFold is strings.Index with ASCII case folding on needle. Indices refer to s.
func indexFold(s, needle string) int {
	n := len(needle)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], needle) {
			return i
		}
	}
	return -1
}
