package grade

import "sort"

// Slice is one segment of the verdict distribution chart.
type Slice struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Color    string   `json:"color"`
	Count    int      `json:"count"`
	Percent  int      `json:"percent"`
}

var (
	colors = map[Category]string{
		True:               "#2e7d32",
		ApproximatelyTrue:  "#4caf50",
		False:              "#c62828",
		ApproximatelyFalse: "#f44336",
		Inconclusive:       "#ffc107",
	}
	shortLabels = map[Category]string{
		True:               "True",
		ApproximatelyTrue:  "Approx. True",
		False:              "False",
		ApproximatelyFalse: "Approx. False",
		Inconclusive:       "Inconclusive",
	}
)

// Color returns the display color of c.
func Color(c Category) string { return colors[c] }

// ShortLabel returns the compact display label of c.
func ShortLabel(c Category) string { return shortLabels[c] }

// Chart projects counts into chart slices in the fixed order True,
// Approximately True, False, Approximately False, Inconclusive. Empty
// categories are dropped. Percentages use largest-remainder rounding so
// they always sum to 100.
func Chart(counts map[Category]int) []Slice {
	var total int
	for _, c := range Categories {
		total += counts[c]
	}
	slices := make([]Slice, 0, len(Categories))
	if total == 0 {
		return slices
	}

	remainders := make([]int, 0, len(Categories))
	assigned := 0
	for _, c := range Categories {
		n := counts[c]
		if n <= 0 {
			continue
		}
		pct := n * 100 / total
		assigned += pct
		remainders = append(remainders, n*100%total)
		slices = append(slices, Slice{
			Category: c,
			Label:    shortLabels[c],
			Color:    colors[c],
			Count:    n,
			Percent:  pct,
		})
	}

	order := make([]int, len(slices))
	for i := range order {
		order[i] = i
	}
	// stable: ties go to the earlier category
	sort.SliceStable(order, func(a, b int) bool { return remainders[order[a]] > remainders[order[b]] })
	for i := 0; assigned < 100; i++ {
		slices[order[i%len(order)]].Percent++
		assigned++
	}
	return slices
}
