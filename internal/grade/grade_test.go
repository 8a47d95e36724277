package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriproof/internal/schemas"
)

func verdicts(vs ...string) []schemas.FactCheckResult {
	out := make([]schemas.FactCheckResult, len(vs))
	for i, v := range vs {
		out[i] = schemas.FactCheckResult{Claim: "claim", Verdict: v}
	}
	return out
}

func TestGrade_Empty(t *testing.T) {
	r := Grade(nil, DefaultOptions())

	assert.Equal(t, LetterNA, r.Letter)
	assert.Equal(t, 0.0, r.Score)
	assert.Equal(t, LetterNA, r.ScoreLabel)
	assert.Equal(t, DescriptionEmpty, r.Description)
	assert.False(t, r.Graded())
	assert.Len(t, r.Counts, len(Categories))
}

func TestGrade_AllInconclusive(t *testing.T) {
	r := Grade(verdicts("", "Inconclusive", "unclear"), DefaultOptions())

	assert.Equal(t, LetterNA, r.Letter)
	assert.Equal(t, 0.0, r.Score)
	assert.Equal(t, DescriptionInsufficient, r.Description)
	assert.Equal(t, 3, r.Counts[Inconclusive])
	assert.Equal(t, 0, r.Verifiable)
	assert.Equal(t, 3, r.Total)
}

func TestGrade_Letters(t *testing.T) {
	tests := []struct {
		name   string
		in     []string
		letter string
		score  float64
		label  string
	}{
		{"all true", []string{"True", "True", "True", "True"}, "A", 10, "10.0"},
		{"all false", []string{"False", "False", "False", "False"}, "F", 0, "0.0"},
		{"half and half", []string{"True", "False"}, "C", 5, "5.0"},
		{"mixed with missing", []string{"True", "Approximately False", ""}, "C", 6.3, "6.3"},
		{"approximately true", []string{"Approximately True"}, "B", 7.5, "7.5"},
		{"approximately false", []string{"Approximately False"}, "D", 2.5, "2.5"},
		{"just below A", []string{"True", "Approximately True"}, "B", 8.8, "8.8"},
		{"A boundary", []string{"True", "True", "True", "True", "True", "True", "True", "True", "True", "False"}, "A", 9, "9.0"},
		{"below D", []string{"False", "False", "Approximately False"}, "F", 0.8, "0.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Grade(verdicts(tt.in...), DefaultOptions())
			assert.Equal(t, tt.letter, r.Letter)
			assert.InDelta(t, tt.score, r.Score, 1e-9)
			assert.Equal(t, tt.label, r.ScoreLabel)
			assert.NotEmpty(t, r.Description)
			assert.True(t, r.Graded())
		})
	}
}

func TestGrade_MixedCounts(t *testing.T) {
	r := Grade(verdicts("True", "Approximately False", "Inconclusive-ish"), DefaultOptions())

	assert.Equal(t, 2, r.Verifiable)
	assert.Equal(t, 1, r.Counts[True])
	assert.Equal(t, 1, r.Counts[ApproximatelyFalse])
	assert.Equal(t, 1, r.Counts[Inconclusive])
	assert.Equal(t, "C", r.Letter)
	assert.InDelta(t, 6.3, r.Score, 1e-9)
}

func TestGrade_CountsSumToInput(t *testing.T) {
	inputs := [][]string{
		nil,
		{"True"},
		{"", "", ""},
		{"True", "False", "Approximately True", "Approximately False", "Inconclusive", "Mostly True", "Mostly False", "???"},
	}
	for _, in := range inputs {
		r := Grade(verdicts(in...), DefaultOptions())
		sum := 0
		for _, n := range r.Counts {
			sum += n
		}
		assert.Equal(t, len(in), sum)
		assert.Equal(t, len(in), r.Total)
	}
}

func TestGrade_Idempotent(t *testing.T) {
	in := verdicts("True", "Mostly False", "", "Approximately True")
	first := Grade(in, DefaultOptions())
	second := Grade(in, DefaultOptions())
	assert.Equal(t, first, second)
}

func TestGrade_LegacyVerificationField(t *testing.T) {
	in := []schemas.FactCheckResult{
		{Claim: "a", Verification: "True"},
		{Claim: "b", Verification: "False"},
	}

	auto := Grade(in, DefaultOptions())
	assert.Equal(t, "C", auto.Letter)

	strict := Grade(in, Options{Field: FieldVerdict, Match: MatchFalsePriority})
	assert.Equal(t, LetterNA, strict.Letter)
	assert.Equal(t, DescriptionInsufficient, strict.Description)

	legacy := Grade(in, Options{Field: FieldVerification, Match: MatchFalsePriority})
	assert.Equal(t, auto, legacy)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		verdict       string
		falsePriority Category
		trueFirst     Category
	}{
		{"", Inconclusive, Inconclusive},
		{"True", True, True},
		{"False", False, False},
		{"Approximately True", ApproximatelyTrue, ApproximatelyTrue},
		{"Approximately False", ApproximatelyFalse, ApproximatelyFalse},
		{"Inconclusive", Inconclusive, Inconclusive},
		{"Mostly True", ApproximatelyTrue, ApproximatelyTrue},
		{"Partially False", ApproximatelyFalse, ApproximatelyFalse},
		{"True in part, False overall", ApproximatelyFalse, ApproximatelyTrue},
		{"true", Inconclusive, Inconclusive},
		{"Unverifiable", Inconclusive, Inconclusive},
	}

	for _, tt := range tests {
		t.Run(tt.verdict, func(t *testing.T) {
			assert.Equal(t, tt.falsePriority, Classify(tt.verdict, MatchFalsePriority))
			assert.Equal(t, tt.trueFirst, Classify(tt.verdict, MatchTrueFirst))
		})
	}
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opts)

	opts, err = ParseOptions("Verification", " true-first ")
	require.NoError(t, err)
	assert.Equal(t, Options{Field: FieldVerification, Match: MatchTrueFirst}, opts)

	_, err = ParseOptions("rating", "")
	assert.Error(t, err)

	_, err = ParseOptions("verdict", "majority")
	assert.Error(t, err)
}
