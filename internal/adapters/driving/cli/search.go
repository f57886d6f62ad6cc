package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
)

var (
	searchJurisdiction string
	searchDates        string
	searchJSON         bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a one-shot dual case-law search",
	Long: `Runs a dual keyword + semantic search without the conversational layer.

The query is sent verbatim to the keyword branch (Boolean operators
like AND, OR, NOT and "quoted phrases" are supported) and in natural
form to the semantic branch. Only a CourtListener API key is required.

Jurisdiction accepts names, not just codes: "california", "texas
federal courts", "ninth circuit", "scotus". Dates accept plain
expressions: "last 3 years", "2020 to 2023", "since 2019", "2021".`,
	Example: `  yevrah search "miranda rights custodial interrogation"
  yevrah search '"wrongful termination" AND retaliation' -j california
  yevrah search "riparian water rights" -j "ninth circuit" -d "last 5 years"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchJurisdiction, "jurisdiction", "j", "", "court or jurisdiction to search (default: all)")
	searchCmd.Flags().StringVarP(&searchDates, "dates", "d", "", "filing date range, e.g. \"last 3 years\"")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if err := ensureServices(false); err != nil {
		return err
	}
	defer closeServices()

	intent := domain.SearchIntent{KeywordQuery: query}

	if searchJurisdiction != "" {
		intent.JurisdictionCodes = domain.MapJurisdiction(searchJurisdiction)
		if intent.JurisdictionCodes == nil {
			return fmt.Errorf("unknown jurisdiction %q (see 'yevrah jurisdictions'): %w",
				searchJurisdiction, domain.ErrInvalidInput)
		}
	}

	if searchDates != "" {
		after, before, err := domain.ParseDateExpression(searchDates, time.Now())
		if err != nil {
			return fmt.Errorf("date range %q: %w", searchDates, err)
		}
		intent.FiledAfter = after
		intent.FiledBefore = before
	}

	session := domain.NewSession()
	results, err := researchService.Search(cmd.Context(), session, intent)
	if err != nil {
		if errors.Is(err, domain.ErrSearchUnavailable) {
			return fmt.Errorf("search failed: %w", err)
		}
		return err
	}

	if searchJSON {
		return outputResultsJSON(cmd, results)
	}

	cmd.Print(renderResults(results))
	if results.Len() == 0 {
		cmd.Println(renderInfo("No cases matched. Try broader terms or another jurisdiction."))
	}
	return nil
}
