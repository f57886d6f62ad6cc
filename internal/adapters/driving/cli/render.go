package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
	"github.com/yevrah-labs/yevrah-cli/internal/core/ports/driving"
)

// Styles for terminal output.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	caseNameStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	keywordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	semanticStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	markStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9E2AF"))
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
)

// renderBanner builds the chat welcome screen with the legal
// disclaimer.
func renderBanner(version string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Yevrah %s", version)))
	b.WriteString("\n")
	b.WriteString("Legal case-law research assistant. Type a research question, or 'help'.\n\n")
	b.WriteString(mutedStyle.Render(
		"Yevrah surfaces court opinions for research purposes only. Nothing it\n" +
			"produces is legal advice; verify every citation before relying on it.\n"))
	b.WriteString("\n")
	return b.String()
}

// renderPrompt is the chat input prompt.
func renderPrompt() string {
	return promptStyle.Render("you> ") + " "
}

// renderResults renders the merged presentation list as a numbered
// list. Each entry shows its source branch so degraded or lopsided
// merges are visible.
func renderResults(list domain.PresentationList) string {
	if list.Len() == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("Results (%d)", list.Len())))
	b.WriteString("\n\n")

	for i, result := range list.Results {
		name := result.CaseName
		if name == "" {
			name = "(untitled opinion)"
		}
		fmt.Fprintf(&b, "%2d. %s %s\n", i+1, caseNameStyle.Render(name), sourceBadge(result.Source))

		meta := make([]string, 0, 4)
		if result.Court != "" {
			meta = append(meta, result.Court)
		}
		if result.DateFiled != "" {
			meta = append(meta, result.DateFiled)
		}
		if result.Citation != "" {
			meta = append(meta, result.Citation)
		}
		if result.Score != 0 {
			meta = append(meta, fmt.Sprintf("score %.2f", result.Score))
		}
		if len(meta) > 0 {
			fmt.Fprintf(&b, "    %s\n", mutedStyle.Render(strings.Join(meta, " | ")))
		}

		if snippet := renderSnippet(result.Snippet); snippet != "" {
			fmt.Fprintf(&b, "    %s\n", snippet)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderSnippet converts backend <mark> highlights into styled text.
func renderSnippet(snippet string) string {
	if snippet == "" {
		return ""
	}
	out := strings.Join(strings.Fields(snippet), " ")
	for {
		start := strings.Index(out, "<mark>")
		if start < 0 {
			break
		}
		end := strings.Index(out, "</mark>")
		if end < start {
			out = strings.Replace(out, "<mark>", "", 1)
			continue
		}
		marked := out[start+len("<mark>") : end]
		out = out[:start] + markStyle.Render(marked) + out[end+len("</mark>"):]
	}
	return domain.Truncate(out, 220)
}

// sourceBadge tags a result with its producing branch.
func sourceBadge(tag domain.SourceTag) string {
	switch tag {
	case domain.SourceKeyword:
		return keywordStyle.Render("[KEYWORD]")
	case domain.SourceSemantic:
		return semanticStyle.Render("[SEMANTIC]")
	default:
		return ""
	}
}

// renderAnalysis renders an opinion drill-down: header, a display
// excerpt of the opinion, then the model's commentary.
func renderAnalysis(analysis driving.Analysis) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(analysis.Result.CaseName))
	b.WriteString("\n")
	meta := make([]string, 0, 3)
	if analysis.Result.Court != "" {
		meta = append(meta, analysis.Result.Court)
	}
	if analysis.Result.DateFiled != "" {
		meta = append(meta, analysis.Result.DateFiled)
	}
	if analysis.Result.Citation != "" {
		meta = append(meta, analysis.Result.Citation)
	}
	if len(meta) > 0 {
		b.WriteString(mutedStyle.Render(strings.Join(meta, " | ")))
		b.WriteString("\n")
	}

	if analysis.OpinionText != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Opinion excerpt:"))
		b.WriteString("\n")
		b.WriteString(domain.Truncate(analysis.OpinionText, domain.DisplayTextLimit))
		b.WriteString("\n")
	}

	if analysis.Commentary != "" {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Analysis"))
		b.WriteString("\n")
		b.WriteString(analysis.Commentary)
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("Analysis is unavailable for this turn; opinion text shown above."))
		b.WriteString("\n")
	}

	return b.String()
}

func renderInfo(msg string) string {
	return mutedStyle.Render(msg)
}

func renderWarning(msg string) string {
	return warnStyle.Render(msg)
}

func renderError(msg string) string {
	return errorStyle.Render(msg)
}

func renderReply(reply string) string {
	return "\n" + reply
}

// outputResultsJSON prints the presentation list as JSON for piping.
func outputResultsJSON(cmd *cobra.Command, list domain.PresentationList) error {
	data, err := json.MarshalIndent(list.Results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
