package pricing

import (
	"sort"
	"strings"
)

// Clean removes the spans matched by the winning extraction strategy from the
// raw query and collapses the remaining whitespace. Only matched spans are
// touched, so "rode jurk onder 50 euro" keeps "rode jurk" intact. When the
// intent is empty, came from a non-textual source, or cleaning would leave
// nothing, the raw query is returned unchanged.
func Clean(rawQuery string, intent Intent) string {
	if len(intent.spans) == 0 {
		return rawQuery
	}

	spans := make([]span, len(intent.spans))
	copy(spans, intent.spans)
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	var b strings.Builder
	prev := 0
	for _, s := range spans {
		if s.Start < prev {
			continue // overlapping span, already removed
		}
		if s.Start > len(rawQuery) || s.End > len(rawQuery) {
			break
		}
		b.WriteString(rawQuery[prev:s.Start])
		prev = s.End
	}
	b.WriteString(rawQuery[prev:])

	cleaned := strings.TrimSpace(whitespacePattern.ReplaceAllString(b.String(), " "))
	if cleaned == "" {
		return rawQuery
	}
	return cleaned
}
