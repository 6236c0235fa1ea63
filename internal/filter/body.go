package filter

import (
	"slices"
	"strings"
)

// BodyRule matches or excludes responses whose body contains any of the
// given substrings. Matching is case-sensitive.
func BodyRule(match, exclude []string) Rule {
	return Rule{
		kind:        KindBody,
		matchBody:   slices.Clone(match),
		excludeBody: slices.Clone(exclude),
	}
}

func decideBody(body string, match, exclude []string) bool {
	if len(match) > 0 {
		return !containsAny(body, match)
	}
	return containsAny(body, exclude)
}

func containsAny(body string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(body, n) {
			return true
		}
	}
	return false
}
