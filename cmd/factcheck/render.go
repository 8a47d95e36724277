package main

import (
	"encoding/json"
	"fmt"
	"io"

	"nutriproof/internal/grade"
	"nutriproof/internal/schemas"
	"nutriproof/internal/view"
)

type jsonReport struct {
	Report  grade.Report              `json:"report"`
	Chart   []grade.Slice             `json:"chart"`
	Results []schemas.FactCheckResult `json:"results,omitempty"`
}

func printReport(w io.Writer, panel *view.Panel, asJSON bool, report grade.Report, results []schemas.FactCheckResult) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonReport{Report: report, Chart: grade.Chart(report.Counts), Results: results})
	}
	_, err := fmt.Fprintln(w, panel.Render(report, results))
	return err
}
