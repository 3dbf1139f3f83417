package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-reader-backend/internal/anchor"
	"github.com/tbourn/go-reader-backend/internal/services"
)

var anchorJSON bool

var anchorCmd = &cobra.Command{
	Use:   "anchor <link>",
	Short: "Resolve a share link",
	Long: "Resolves the anchor carried by a share link (a full URL or just its query\n" +
		"string) against the linked section and prints the highlighted ranges.",
	Args: cobra.ExactArgs(1),
	RunE: runAnchor,
}

func init() {
	anchorCmd.Flags().BoolVar(&anchorJSON, "json", false, "Output as JSON")
}

func runAnchor(cmd *cobra.Command, args []string) error {
	params, err := linkParams(args[0])
	if err != nil {
		return err
	}
	ref := anchor.ParseReference(params)
	if ref.EssaySlug == "" || ref.SectionNumber == 0 {
		return errors.New("link must name an essay and a section")
	}

	db, err := maybeOpenDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	_, readerSvc := newServices(cfg, db)
	view, err := readerSvc.Section(cmd.Context(), ref.EssaySlug, ref.SectionNumber, params)
	if err != nil {
		return err
	}
	if anchorJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Anchor *anchor.Resolution `json:"anchor"`
			Notice string             `json:"notice,omitempty"`
		}{view.Anchor, view.Notice})
	}
	printResolution(cmd.OutOrStdout(), view)
	return nil
}

// linkParams returns the query parameters of a link, ignoring any fragment.
func linkParams(link string) (url.Values, error) {
	link = strings.TrimSpace(link)
	if i := strings.IndexByte(link, '#'); i >= 0 {
		link = link[:i]
	}
	if i := strings.IndexByte(link, '?'); i >= 0 {
		link = link[i+1:]
	}
	v, err := url.ParseQuery(link)
	if err != nil {
		return nil, fmt.Errorf("parse link: %w", err)
	}
	return v, nil
}

func printResolution(w io.Writer, view *services.SectionView) {
	fmt.Fprintf(w, "%s · %s\n", view.EssayTitle, view.Label)
	res := view.Anchor
	if res == nil {
		fmt.Fprintln(w, "no anchor in link")
		return
	}
	status := "resolved"
	if !res.Resolved {
		status = "unresolved"
	}
	fmt.Fprintf(w, "strategy: %s (%s)\n", res.Strategy, status)
	for _, r := range res.Ranges {
		fmt.Fprintf(w, "  [%d,%d) %q\n", r.Start, r.End, r.Text)
	}
	if view.Notice != "" {
		fmt.Fprintln(w, view.Notice)
	}
}
