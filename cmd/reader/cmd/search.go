package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-reader-backend/internal/search"
	"github.com/tbourn/go-reader-backend/internal/services"
)

var (
	searchMode     string
	searchScope    string
	searchCase     bool
	searchSort     string
	searchPage     int
	searchPageSize int
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the essays",
	Long: "Runs a search against the configured content and prints one line per hit\n" +
		"with the link that reopens its section on that occurrence.",
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchMode, "mode", "m", string(search.ModeContains), "Match mode: contains, exact_phrase, fuzzy")
	f.StringVarP(&searchScope, "scope", "s", search.ScopeAll, "all, <essay slug> or <slug>:<number>")
	f.BoolVarP(&searchCase, "case-sensitive", "c", false, "Match case")
	f.StringVar(&searchSort, "sort", string(search.SortReadingOrder), "Hit order: reading_order, relevance")
	f.IntVar(&searchPage, "page", 1, "Page number")
	f.IntVar(&searchPageSize, "page-size", search.DefaultPageSize, "Hits per page: 25, 50, 100")
	f.BoolVar(&searchJSON, "json", false, "Output as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	db, err := maybeOpenDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	searchSvc, _ := newServices(cfg, db)
	q := search.Query{
		Text:          strings.Join(args, " "),
		Mode:          search.Mode(searchMode),
		Scope:         searchScope,
		CaseSensitive: searchCase,
		Sort:          search.Sort(searchSort),
		Page:          searchPage,
		PageSize:      searchPageSize,
	}
	res, err := searchSvc.Execute(cmd.Context(), q, services.SourceCLI)
	if err != nil {
		return err
	}
	out := searchSvc.Respond(res)
	if searchJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printSearch(cmd.OutOrStdout(), out)
	return nil
}

func printSearch(w io.Writer, out *services.SearchResponse) {
	p := out.Page
	fmt.Fprintf(w, "%d %s in %d %s of %d %s (page %d/%d)\n",
		out.TotalHits, plural(out.TotalHits, "hit", "hits"),
		out.TotalSections, plural(out.TotalSections, "section", "sections"),
		out.TotalEssays, plural(out.TotalEssays, "essay", "essays"),
		p.Page, max(p.TotalPages, 1))
	if len(p.Items) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, h := range p.Items {
		fmt.Fprintf(tw, "%d\t%s\t#%d\t%s\t%s\n", p.Start+i, h.SectionSearchLabel, h.Occurrence, h.Snippet, h.Link)
	}
	_ = tw.Flush()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
