package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nutriproof/internal/grade"
	"nutriproof/internal/schemas"
	"nutriproof/internal/view"
)

func gradeCmd() *cobra.Command {
	var rf renderFlags
	cmd := &cobra.Command{
		Use:   "grade <results.json|->",
		Short: "Grade a saved list of fact-check results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := rf.options()
			if err != nil {
				return err
			}
			results, err := loadResults(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			panel := &view.Panel{Field: opts.Field}
			defer panel.Close()
			return printReport(cmd.OutOrStdout(), panel, rf.json, grade.Grade(results, opts), results)
		},
	}
	rf.register(cmd)
	return cmd
}

// loadResults accepts a bare result array, a {"results": [...]} document or
// an archived check.
func loadResults(stdin io.Reader, path string) ([]schemas.FactCheckResult, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)

	var results []schemas.FactCheckResult
	if len(b) > 0 && b[0] == '[' {
		if err := json.Unmarshal(b, &results); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return results, nil
	}
	var doc struct {
		Results []schemas.FactCheckResult `json:"results"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Results, nil
}
