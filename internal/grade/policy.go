package grade

import (
	"errors"
	"fmt"
	"strings"

	"nutriproof/internal/schemas"
)

// ErrUnknownPolicy is returned for unrecognised policy names.
var ErrUnknownPolicy = errors.New("unknown policy")

// FieldPolicy selects which result field carries the verdict. Older API
// revisions emit "verification", newer ones "verdict".
type FieldPolicy string

const (
	FieldAuto         FieldPolicy = "auto"
	FieldVerdict      FieldPolicy = "verdict"
	FieldVerification FieldPolicy = "verification"
)

// Verdict extracts the verdict string from r under the policy. FieldAuto
// prefers "verdict" and falls back to "verification".
func (p FieldPolicy) Verdict(r schemas.FactCheckResult) string {
	switch p {
	case FieldVerdict:
		return r.Verdict
	case FieldVerification:
		return r.Verification
	default:
		if r.Verdict != "" {
			return r.Verdict
		}
		return r.Verification
	}
}

// MatchPolicy decides how a non-canonical verdict containing both "True" and
// "False" is bucketed.
type MatchPolicy string

const (
	// MatchFalsePriority only treats a "True" substring as Approximately True
	// when "False" is absent.
	MatchFalsePriority MatchPolicy = "false-priority"
	// MatchTrueFirst treats any "True" substring as Approximately True.
	MatchTrueFirst MatchPolicy = "true-first"
)

// Options parameterizes grading.
type Options struct {
	Field FieldPolicy
	Match MatchPolicy
}

// DefaultOptions reads either verdict field and lets "False" win ties.
func DefaultOptions() Options {
	return Options{Field: FieldAuto, Match: MatchFalsePriority}
}

// ParseFieldPolicy accepts "", "auto", "verdict" or "verification".
func ParseFieldPolicy(s string) (FieldPolicy, error) {
	switch p := FieldPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FieldAuto, nil
	case FieldAuto, FieldVerdict, FieldVerification:
		return p, nil
	default:
		return "", fmt.Errorf("%w: verdict field %q", ErrUnknownPolicy, s)
	}
}

// ParseMatchPolicy accepts "", "false-priority" or "true-first".
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch p := MatchPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return MatchFalsePriority, nil
	case MatchFalsePriority, MatchTrueFirst:
		return p, nil
	default:
		return "", fmt.Errorf("%w: match policy %q", ErrUnknownPolicy, s)
	}
}

// ParseOptions builds Options from their string forms.
func ParseOptions(field, match string) (Options, error) {
	f, err := ParseFieldPolicy(field)
	if err != nil {
		return Options{}, err
	}
	m, err := ParseMatchPolicy(match)
	if err != nil {
		return Options{}, err
	}
	return Options{Field: f, Match: m}, nil
}
