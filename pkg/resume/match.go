package resume

import (
	"sort"
	"strings"
)

// Range is a half-open [Start, End) byte range into the résumé text.
type Range struct {
	Start int
	End   int
}

// MatchSnippets locates cited snippets in the résumé text and returns
// non-overlapping highlight ranges ordered by position.
//
// Every exact occurrence of every snippet is a candidate; longer
// snippets claim their ranges first, so a short snippet cannot split a
// longer overlapping match. Snippets the text does not contain
// contribute nothing.
func MatchSnippets(text string, snippets []string) []Range {
	ordered := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if s != "" {
			ordered = append(ordered, s)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	var claimed []Range
	for _, s := range ordered {
		for from := 0; ; {
			i := strings.Index(text[from:], s)
			if i < 0 {
				break
			}
			r := Range{Start: from + i, End: from + i + len(s)}
			if !overlapsAny(claimed, r) {
				claimed = append(claimed, r)
			}
			from = r.Start + 1
		}
	}

	sort.Slice(claimed, func(i, j int) bool {
		return claimed[i].Start < claimed[j].Start
	})
	return claimed
}

func overlapsAny(ranges []Range, r Range) bool {
	for _, c := range ranges {
		if r.Start < c.End && c.Start < r.End {
			return true
		}
	}
	return false
}
