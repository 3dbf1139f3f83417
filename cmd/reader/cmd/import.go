package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-reader-backend/internal/content"
	"github.com/tbourn/go-reader-backend/internal/repo"
	"github.com/tbourn/go-reader-backend/internal/sysutil"
)

var importDir string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load essays from files into the database",
	Long: "Reads the registry and section files under --dir (CONTENT_DIR by default)\n" +
		"and replaces the essays stored in DB_PATH. Serve them with CONTENT_SOURCE=sqlite.",
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importDir, "dir", "d", "", "Content directory (default CONTENT_DIR)")
}

func runImport(cmd *cobra.Command, args []string) error {
	dir := sysutil.FirstNonEmpty(importDir, cfg.ContentDir)
	essays, err := content.NewFileSource(dir).Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	res, err := repo.ImportEssays(cmd.Context(), db, essays)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	log.Info().
		Str("dir", dir).
		Str("db", cfg.DBPath).
		Int("essays", res.Essays).
		Int("sections", res.Sections).
		Int("drafts", res.Drafts).
		Msg("import complete")
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d essays (%d sections, %d drafts) into %s\n",
		res.Essays, res.Sections, res.Drafts, cfg.DBPath)
	return nil
}
