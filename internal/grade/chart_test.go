package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChart_FixedOrder(t *testing.T) {
	counts := Count(verdicts("Inconclusive", "Approximately False", "False", "Approximately True", "True", "True"), DefaultOptions())

	slices := Chart(counts)
	require.Len(t, slices, 5)

	var order []Category
	for _, s := range slices {
		order = append(order, s.Category)
	}
	assert.Equal(t, []Category{True, ApproximatelyTrue, False, ApproximatelyFalse, Inconclusive}, order)
	assert.Equal(t, 2, slices[0].Count)
	assert.Equal(t, 33, slices[0].Percent)
	assert.Equal(t, 17, slices[1].Percent)
	assert.Equal(t, 100, percentSum(slices))
}

func TestChart_PercentsSumTo100(t *testing.T) {
	cases := []struct {
		name   string
		counts map[Category]int
		want   []int
	}{
		{"three equal", map[Category]int{True: 1, False: 1, Inconclusive: 1}, []int{34, 33, 33}},
		{"two thirds", map[Category]int{False: 2, Inconclusive: 1}, []int{67, 33}},
		{"sevenths", map[Category]int{True: 1, ApproximatelyTrue: 2, False: 4}, []int{14, 29, 57}},
		{"single", map[Category]int{ApproximatelyFalse: 9}, []int{100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slices := Chart(tc.counts)
			got := make([]int, len(slices))
			for i, s := range slices {
				got[i] = s.Percent
			}
			assert.Equal(t, tc.want, got)
			assert.Equal(t, 100, percentSum(slices))
		})
	}
}

func percentSum(slices []Slice) int {
	sum := 0
	for _, s := range slices {
		sum += s.Percent
	}
	return sum
}

func TestChart_OmitsEmpty(t *testing.T) {
	slices := Chart(Count(verdicts("False", "", "False"), DefaultOptions()))

	require.Len(t, slices, 2)
	assert.Equal(t, False, slices[0].Category)
	assert.Equal(t, "#c62828", slices[0].Color)
	assert.Equal(t, 67, slices[0].Percent)
	assert.Equal(t, Inconclusive, slices[1].Category)
	assert.Equal(t, "#ffc107", slices[1].Color)
}

func TestChart_NoData(t *testing.T) {
	assert.Empty(t, Chart(nil))
	assert.Empty(t, Chart(Count(nil, DefaultOptions())))
}

func TestChart_Labels(t *testing.T) {
	assert.Equal(t, "Approx. True", ShortLabel(ApproximatelyTrue))
	assert.Equal(t, "Approx. False", ShortLabel(ApproximatelyFalse))
	assert.Equal(t, "#4caf50", Color(ApproximatelyTrue))
	assert.Equal(t, "#f44336", Color(ApproximatelyFalse))
	assert.Equal(t, "#2e7d32", Color(True))
}
