package doctor

import (
	"slices"
	"strings"
)

// FilterResult holds the outcome of selecting checks by name or category.
type FilterResult struct {
	Matched   []Check
	Unmatched []string // Args that named neither a check nor a category
}

// FilterChecks selects checks for `pakeforge doctor [name|category...]`.
// Each arg is tried as a check name first, then as a category. No args
// selects everything.
func FilterChecks(checks []Check, args []string) *FilterResult {
	if len(args) == 0 {
		return &FilterResult{Matched: checks}
	}

	result := &FilterResult{}
	seen := make(map[string]bool)
	add := func(c Check) {
		if !seen[c.Name()] {
			seen[c.Name()] = true
			result.Matched = append(result.Matched, c)
		}
	}

	for _, arg := range args {
		want := NormalizeName(arg)
		matched := false
		for _, c := range checks {
			if NormalizeName(c.Name()) == want {
				add(c)
				matched = true
				break
			}
		}
		if !matched {
			for _, c := range checks {
				if strings.EqualFold(c.Category(), arg) {
					add(c)
					matched = true
				}
			}
		}
		if !matched {
			result.Unmatched = append(result.Unmatched, arg)
		}
	}
	return result
}

// NormalizeName lowercases and treats underscores as hyphens:
// Runtime_Version → runtime-version.
func NormalizeName(input string) string {
	return strings.ReplaceAll(strings.ToLower(input), "_", "-")
}

// SuggestCheck returns up to 3 check names within edit distance 2 of input,
// closest first.
func SuggestCheck(checks []Check, input string) []string {
	type candidate struct {
		name string
		dist int
	}
	want := NormalizeName(input)
	var candidates []candidate
	for _, c := range checks {
		if d := levenshtein(want, NormalizeName(c.Name())); d > 0 && d <= 2 {
			candidates = append(candidates, candidate{c.Name(), d})
		}
	}
	slices.SortFunc(candidates, func(a, b candidate) int {
		if a.dist != b.dist {
			return a.dist - b.dist
		}
		return strings.Compare(a.name, b.name)
	})

	var out []string
	for i := 0; i < len(candidates) && i < 3; i++ {
		out = append(out, candidates[i].name)
	}
	return out
}

func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr := make([]int, len(b)+1)
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev = curr
	}
	return prev[len(b)]
}
