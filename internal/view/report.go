package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nutriproof/internal/grade"
	"nutriproof/internal/schemas"
)

// RenderReport draws the letter badge, the score and the description.
func RenderReport(r grade.Report) string {
	color, ok := letterColors[r.Letter]
	if !ok {
		color = letterColors[grade.LetterNA]
	}
	badge := badgeStyle.Background(color).Render(r.Letter)

	line := badge
	if r.Graded() {
		line = lipgloss.JoinHorizontal(lipgloss.Center, badge, " ", titleStyle.Render(r.ScoreLabel+"/10"))
	}
	summary := mutedStyle.Render(fmt.Sprintf("%d of %d claims verifiable", r.Verifiable, r.Total))
	return lipgloss.JoinVertical(lipgloss.Left, line, r.Description, summary)
}

// StatusClass maps a verdict to the card style used for it.
func StatusClass(verdict string) string {
	switch grade.Classify(verdict, grade.MatchFalsePriority) {
	case grade.True:
		return StatusTrue
	case grade.False:
		return StatusFalse
	case grade.ApproximatelyTrue, grade.ApproximatelyFalse:
		return StatusPartiallyTrue
	default:
		return StatusUnknown
	}
}

// RenderResults draws one card per result.
func RenderResults(results []schemas.FactCheckResult, field grade.FieldPolicy) string {
	if len(results) == 0 {
		return mutedStyle.Render("No verifiable claims found.")
	}
	cards := make([]string, 0, len(results))
	for _, r := range results {
		cards = append(cards, renderResult(r, field))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func renderResult(r schemas.FactCheckResult, field grade.FieldPolicy) string {
	verdict := field.Verdict(r)
	if verdict == "" {
		verdict = "Unknown"
	}
	color := statusColors[StatusClass(verdict)]

	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Claim))
	b.WriteString("\n")
	b.WriteString(badgeStyle.Background(color).Render(verdict))
	if r.WolframQuery != "" {
		b.WriteString("\n" + labelStyle.Render("Query: ") + r.WolframQuery)
	}
	if r.WolframResponse != "" {
		b.WriteString("\n" + labelStyle.Render("Wolfram|Alpha: ") + r.WolframResponse)
	}
	if r.FinalAnswer != "" {
		b.WriteString("\n" + r.FinalAnswer)
	}
	return cardStyle.BorderForeground(color).Render(b.String())
}
