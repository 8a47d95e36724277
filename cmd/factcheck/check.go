package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nutriproof/internal/grade"
	"nutriproof/internal/schemas"
	"nutriproof/internal/view"
)

func checkCmd(o *rootOptions) *cobra.Command {
	var (
		rf    renderFlags
		async bool
		poll  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "check [text|-]",
		Short: "Fact-check text (read from stdin with - or no argument)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := rf.options()
			if err != nil {
				return err
			}
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			c := o.client()
			panel := &view.Panel{Field: opts.Field}
			defer panel.Close()

			if !async {
				results, err := c.FactCheck(cmd.Context(), text)
				if err != nil {
					return err
				}
				return printReport(cmd.OutOrStdout(), panel, rf.json, grade.Grade(results, opts), results)
			}

			created, err := c.CreateCheck(cmd.Context(), text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "check %s %s\n", created.CheckID, created.Status)
			return waitAndPrint(cmd, o, panel, rf.json, opts, created.CheckID, poll)
		},
	}
	rf.register(cmd)
	cmd.Flags().BoolVar(&async, "async", false, "queue the check and poll for the result")
	cmd.Flags().DurationVar(&poll, "poll", 2*time.Second, "poll interval for --async")
	return cmd
}

func recheckCmd(o *rootOptions) *cobra.Command {
	var (
		rf   renderFlags
		poll time.Duration
	)
	cmd := &cobra.Command{
		Use:   "recheck <check-id>",
		Short: "Run a stored check again and show the new result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := rf.options()
			if err != nil {
				return err
			}
			c := o.client()
			panel := &view.Panel{Field: opts.Field}
			defer panel.Close()

			prev, err := c.GetCheck(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if prev.Status == "done" && !rf.json {
				fmt.Fprintln(cmd.OutOrStdout(), "previous result:")
				if err := printCheck(cmd.OutOrStdout(), panel, false, opts, prev); err != nil {
					return err
				}
			}
			if _, err := c.Recheck(cmd.Context(), args[0]); err != nil {
				return err
			}
			return waitAndPrint(cmd, o, panel, rf.json, opts, args[0], poll)
		},
	}
	rf.register(cmd)
	cmd.Flags().DurationVar(&poll, "poll", 2*time.Second, "poll interval")
	return cmd
}

func waitAndPrint(cmd *cobra.Command, o *rootOptions, panel *view.Panel, asJSON bool, opts grade.Options, id string, poll time.Duration) error {
	out, err := o.client().WaitCheck(cmd.Context(), id, poll, func(c schemas.CheckOut) {
		fmt.Fprintf(cmd.ErrOrStderr(), "check %s %s\n", c.CheckID, c.Status)
	})
	if err != nil {
		return err
	}
	if out.Status == "failed" {
		return fmt.Errorf("check %s failed: %s", id, out.Error)
	}
	return printCheck(cmd.OutOrStdout(), panel, asJSON, opts, out)
}

// printCheck regrades stored results with the local options.
func printCheck(w io.Writer, panel *view.Panel, asJSON bool, opts grade.Options, c schemas.CheckOut) error {
	report := grade.Grade(c.Results, opts)
	if len(c.Results) == 0 && len(c.Report) > 0 {
		if err := json.Unmarshal(c.Report, &report); err != nil {
			return err
		}
	}
	return printReport(w, panel, asJSON, report, c.Results)
}

func readText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", errors.New("no text to check")
	}
	return text, nil
}
