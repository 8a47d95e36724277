package factcheck

import (
	"regexp"
	"strings"
)

// Canonical verdict labels the model is asked to choose from.
const (
	VerdictTrue               = "True"
	VerdictFalse              = "False"
	VerdictApproximatelyTrue  = "Approximately True"
	VerdictApproximatelyFalse = "Approximately False"
	VerdictInconclusive       = "Inconclusive"
)

var canonical = []string{
	VerdictTrue, VerdictFalse, VerdictApproximatelyTrue, VerdictApproximatelyFalse, VerdictInconclusive,
}

// containment order: the "Approximately" labels contain "true"/"false" and
// must be tried before the bare labels.
var byLength = []string{
	VerdictApproximatelyFalse, VerdictApproximatelyTrue, VerdictInconclusive, VerdictFalse, VerdictTrue,
}

var (
	negatedTrue  = regexp.MustCompile(`\buntrue\b|\b(?:not|never|isn't|wasn't)\s+true\b`)
	negatedLabel = regexp.MustCompile(`\b(?:not|never|isn't|wasn't)\s+(?:\w+\s+)?(?:true|false|inconclusive)\b`)
)

// NormalizeVerdict maps free-form model output onto a canonical label.
// "Not true" and "untrue" read as False; any other negated label is
// ambiguous and becomes Inconclusive.
func NormalizeVerdict(raw string) string {
	v := strings.Trim(strings.TrimSpace(raw), `"'.`)
	for _, c := range canonical {
		if v == c {
			return c
		}
	}
	lower := strings.ToLower(v)
	switch {
	case negatedTrue.MatchString(lower):
		return VerdictFalse
	case negatedLabel.MatchString(lower):
		return VerdictInconclusive
	}
	for _, c := range byLength {
		if strings.Contains(lower, strings.ToLower(c)) {
			return c
		}
	}
	return VerdictInconclusive
}
