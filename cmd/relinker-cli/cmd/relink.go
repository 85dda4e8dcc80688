package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"relinker/internal/application"
	"relinker/internal/logging"
)

var relinkYes bool

var relinkCmd = &cobra.Command{
	Use:   "relink",
	Short: "Give source assets the GUIDs of their reference counterparts",
	Long: `Swap the GUID of every source asset with the GUID of the asset at the
same relative path in the reference tree, then rewrite every file that
referenced the old GUID.

Files are modified in place. Without --yes the plan is printed and the
relink only runs after confirmation.

Examples:
  relinker-cli relink
  relinker-cli relink --yes --source 0f1e... --reference 9a8b...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		progress := logging.NewProgressLogger(env.Logger)

		if !relinkYes {
			plan, err := env.Runner.Plan(cmd.Context(), progress)
			if err != nil {
				return err
			}
			printPlan(out, plan)
			if len(plan.Entries) == 0 {
				return nil
			}
			if !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Relink %d assets?", len(plan.Entries))) {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
		}

		result, err := env.Runner.Relink(cmd.Context(), progress)
		if result != nil {
			fmt.Fprint(out, result.Report.Format(application.Version))
			fmt.Fprintln(out, result.Message)
		}
		return err
	},
}

// confirm asks question and reports whether the answer starts with y
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
}

func init() {
	relinkCmd.Flags().BoolVarP(&relinkYes, "yes", "y", false, "relink without asking for confirmation")
	rootCmd.AddCommand(relinkCmd)
}
