package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"relinker/internal/adapters/editor"
	"relinker/internal/domain"
)

var refsCmd = &cobra.Command{
	Use:   "refs <guid>",
	Short: "List the files referencing a GUID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		guid, err := guidArg(args[0])
		if err != nil {
			return err
		}
		dependents, err := env.Runner.Dependents(cmd.Context(), guid)
		if err != nil {
			return err
		}
		for _, d := range dependents {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}

var depsCmd = &cobra.Command{
	Use:   "deps <path>",
	Short: "List the assets a file depends on, directly or not",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := env.DB.ForwardDependencies(domain.NormalizePath(args[0]))
		if err != nil {
			return err
		}
		for _, d := range deps {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <guid>",
	Short: "Print the location of a GUID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		guid, err := guidArg(args[0])
		if err != nil {
			return err
		}
		location, err := env.Runner.Resolve(guid)
		if err != nil {
			return err
		}
		if location == "" {
			return fmt.Errorf("guid %s not found", guid)
		}
		fmt.Fprintln(cmd.OutOrStdout(), location)
		return nil
	},
}

var openMeta bool

var openCmd = &cobra.Command{
	Use:   "open <guid>",
	Short: "Open the asset of a GUID in your editor",
	Long: `Open the asset of a GUID, or its .meta file with --meta, in the editor
named by $RELINKER_EDITOR, $EDITOR or $VISUAL.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		guid, err := guidArg(args[0])
		if err != nil {
			return err
		}
		location, err := env.Runner.Resolve(guid)
		if err != nil {
			return err
		}
		if location == "" {
			return fmt.Errorf("guid %s not found", guid)
		}
		if openMeta {
			location = env.DB.MetaPathFor(location)
		}
		return editor.NewOpener(env.Files.ProjectPath()).Open(location)
	},
}

var newGUIDCmd = &cobra.Command{
	Use:   "new-guid",
	Short: "Print a fresh GUID",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), domain.NewGUID())
	},
}

func guidArg(s string) (string, error) {
	if !domain.IsGUID(s) {
		return "", fmt.Errorf("invalid guid %q: expected 32 hex characters", s)
	}
	return s, nil
}

func init() {
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(newGUIDCmd)

	openCmd.Flags().BoolVar(&openMeta, "meta", false, "open the .meta file instead of the asset")
	rootCmd.AddCommand(openCmd)
}
