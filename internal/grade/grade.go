// Package grade turns a set of fact-check results into a letter grade, a
// 0-10 score and a per-category distribution.
package grade

import (
	"math"
	"strconv"
	"strings"

	"nutriproof/internal/schemas"
)

// Category is one of the five canonical verdict buckets.
type Category string

const (
	True               Category = "True"
	ApproximatelyTrue  Category = "Approximately True"
	False              Category = "False"
	ApproximatelyFalse Category = "Approximately False"
	Inconclusive       Category = "Inconclusive"
)

// Categories lists the canonical buckets in chart order.
var Categories = []Category{True, ApproximatelyTrue, False, ApproximatelyFalse, Inconclusive}

var weights = map[Category]float64{
	True:               10,
	ApproximatelyTrue:  7.5,
	ApproximatelyFalse: 2.5,
	False:              0,
}

const (
	LetterNA = "N/A"

	DescriptionEmpty        = "No claims to verify"
	DescriptionInsufficient = "Insufficient data to grade: no claims could be verified"
)

var letters = []struct {
	min         float64
	letter      string
	description string
}{
	{9, "A", "Excellent: the claims are overwhelmingly accurate"},
	{7.5, "B", "Good: most claims hold up"},
	{5, "C", "Mixed: accurate and inaccurate claims are roughly balanced"},
	{2.5, "D", "Poor: most claims are inaccurate"},
	{math.Inf(-1), "F", "Failing: the claims are largely false"},
}

// Report is the aggregate grade for one result set.
type Report struct {
	Letter      string           `json:"letter"`
	Score       float64          `json:"score"`
	ScoreLabel  string           `json:"score_label"`
	Description string           `json:"description"`
	Counts      map[Category]int `json:"counts"`
	Verifiable  int              `json:"verifiable"`
	Total       int              `json:"total"`
}

// Graded reports whether the report carries a numeric score.
func (r Report) Graded() bool { return r.Letter != LetterNA }

// Classify maps a single raw verdict string to its category.
func Classify(verdict string, policy MatchPolicy) Category {
	if verdict == "" {
		return Inconclusive
	}
	for _, c := range Categories {
		if verdict == string(c) {
			return c
		}
	}
	hasTrue := strings.Contains(verdict, "True")
	hasFalse := strings.Contains(verdict, "False")
	switch {
	case hasTrue && (policy == MatchTrueFirst || !hasFalse):
		return ApproximatelyTrue
	case hasFalse:
		return ApproximatelyFalse
	default:
		return Inconclusive
	}
}

// Count classifies every result and tallies the categories. All five
// categories are present in the returned map.
func Count(results []schemas.FactCheckResult, opts Options) map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}
	for _, r := range results {
		counts[Classify(opts.Field.Verdict(r), opts.Match)]++
	}
	return counts
}

// Grade computes the report for results. It never fails: records without a
// usable verdict count as Inconclusive, and a set with nothing verifiable
// yields the N/A sentinel.
func Grade(results []schemas.FactCheckResult, opts Options) Report {
	counts := Count(results, opts)
	total := len(results)
	verifiable := total - counts[Inconclusive]

	r := Report{
		Letter:     LetterNA,
		ScoreLabel: LetterNA,
		Counts:     counts,
		Verifiable: verifiable,
		Total:      total,
	}
	switch {
	case total == 0:
		r.Description = DescriptionEmpty
		return r
	case verifiable == 0:
		r.Description = DescriptionInsufficient
		return r
	}

	var sum float64
	for _, c := range Categories {
		if w, ok := weights[c]; ok {
			sum += float64(counts[c]) * w
		}
	}
	avg := sum / float64(verifiable)

	for _, l := range letters {
		if avg >= l.min {
			r.Letter = l.letter
			r.Description = l.description
			break
		}
	}
	r.Score = math.Round(avg*10) / 10
	r.ScoreLabel = strconv.FormatFloat(r.Score, 'f', 1, 64)
	return r
}
