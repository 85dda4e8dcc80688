package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"relinker/internal/application/commands"
	"relinker/internal/logging"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a relink would do without modifying anything",
	Long: `Match the source tree against the reference tree and count, for each
matched asset, the files referencing it.

Examples:
  relinker-cli plan
  relinker-cli plan --source 0f1e... --reference 9a8b...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := env.Runner.Plan(cmd.Context(), logging.NewProgressLogger(env.Logger))
		if err != nil {
			return err
		}
		printPlan(cmd.OutOrStdout(), plan)
		return nil
	},
}

func printPlan(w io.Writer, plan *commands.PlanResult) {
	fmt.Fprintf(w, "Source:    %s (%s)\n", plan.Match.Source.RootPath, plan.Match.Source.RootGUID)
	fmt.Fprintf(w, "Reference: %s (%s)\n", plan.Match.Reference.RootPath, plan.Match.Reference.RootGUID)
	if len(plan.Entries) == 0 {
		fmt.Fprintln(w, "No source asset has a counterpart in the reference tree.")
		return
	}
	fmt.Fprintln(w, plan.Message)
	fmt.Fprintf(w, "References found: %d\n", plan.References)
	for _, e := range plan.Entries {
		fmt.Fprintf(w, "%6d  %s\n", e.Dependents, e.OldPath)
	}
}

func init() {
	rootCmd.AddCommand(planCmd)
}
