package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nutriproof/internal/apiclient"
	"nutriproof/internal/grade"
)

type rootOptions struct {
	v *viper.Viper
}

func (o *rootOptions) client() *apiclient.Client {
	return apiclient.New(o.v.GetString("api_base_url"), o.v.GetString("api_token"), o.v.GetDuration("timeout"))
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{v: viper.New()}
	o.v.SetDefault("api_base_url", "http://localhost:8000")
	o.v.SetDefault("timeout", 2*time.Minute)
	o.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "factcheck",
		Short:         "Check claims against Wolfram|Alpha and grade the results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("api", "", "API base URL (env API_BASE_URL)")
	root.PersistentFlags().String("token", "", "API token for /api/checks (env API_TOKEN)")
	root.PersistentFlags().Duration("timeout", 0, "HTTP timeout")
	_ = o.v.BindPFlag("api_base_url", root.PersistentFlags().Lookup("api"))
	_ = o.v.BindPFlag("api_token", root.PersistentFlags().Lookup("token"))
	_ = o.v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	root.AddCommand(checkCmd(o), recheckCmd(o), gradeCmd())
	return root
}

// renderFlags are shared by every command that prints a report.
type renderFlags struct {
	field  string
	policy string
	json   bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.field, "field", "", "verdict field: auto, verdict or verification")
	cmd.Flags().StringVar(&f.policy, "policy", "", "match policy: false-priority or true-first")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the report as JSON")
}

func (f *renderFlags) options() (grade.Options, error) {
	return grade.ParseOptions(f.field, f.policy)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
