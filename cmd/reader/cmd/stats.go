package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show search analytics",
	Long:  "Prints recorded search totals, per-mode counts and top queries, plus the size of the index, as JSON.",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	searchSvc, _ := newServices(cfg, db)
	st, err := searchSvc.Stats(cmd.Context())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}
