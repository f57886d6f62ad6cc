package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
)

var jurisdictionsCmd = &cobra.Command{
	Use:   "jurisdictions",
	Short: "List searchable courts and jurisdictions",
	Long: `Lists the courts Yevrah can search, grouped by level.

Any of these can be used with the --jurisdiction flag or named in a
chat request ("in california", "texas federal courts", "9th circuit").`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Print(renderJurisdictions())
	},
}

func init() {
	rootCmd.AddCommand(jurisdictionsCmd)
}

// renderJurisdictions builds the full jurisdiction reference listing.
func renderJurisdictions() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Federal Appellate Courts"))
	b.WriteString("\n")
	for _, court := range domain.FederalAppellateCourts {
		fmt.Fprintf(&b, "  %-8s %s\n", court.Code, court.Name)
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("State Courts"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(
		"  Use a state name to search all of its courts, or \"<state> supreme\"\n" +
			"  for just the court of last resort.\n"))
	for _, state := range domain.StateNames() {
		fmt.Fprintf(&b, "  %s\n", titleCase(state))
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Scopes"))
	b.WriteString("\n")
	b.WriteString("  federal                 all federal appellate courts\n")
	b.WriteString("  <state> federal courts  federal courts sitting in that state\n")
	b.WriteString("  <state> state courts    state-level courts only\n")
	b.WriteString("  scotus                  Supreme Court of the United States\n")

	return b.String()
}

// titleCase capitalises each word of a lowercase state name.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
