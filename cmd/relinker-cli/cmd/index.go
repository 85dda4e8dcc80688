package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"relinker/internal/domain"
)

var indexFull bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Update the asset index",
	Long: `Scan the project and update the asset index. Only files changed since
the last scan are read unless --full is given or the index is stale.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationSkipSync: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			stats *domain.SyncStats
			err   error
		)
		if indexFull || env.Index.NeedsFullRebuild() {
			stats, err = env.Index.SyncFull()
		} else {
			stats, err = env.Index.SyncIncremental()
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Scanned %d files: %d added, %d updated, %d deleted, %d references (%s)\n",
			stats.FilesScanned, stats.NodesAdded, stats.NodesUpdated, stats.NodesDeleted, stats.EdgesAdded,
			stats.Duration.Round(time.Millisecond))
		fmt.Fprintf(cmd.OutOrStdout(), "Index: %s\n", env.Index.DBPath())
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&indexFull, "full", false, "rebuild the index from scratch")
	rootCmd.AddCommand(indexCmd)
}
