package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
	"github.com/yevrah-labs/yevrah-cli/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive research session",
	Long: `Start an interactive research session.

Describe your legal research question in plain language. Yevrah
interprets it, runs a dual keyword + semantic search against
CourtListener, and presents a merged, numbered result list. Enter a
result number to fetch the full opinion and analyze it.

In-session commands:
  exit, quit, q   end the session
  new, reset      start a fresh session
  jurisdictions   list searchable courts
  help            show this command list`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(true); err != nil {
		return err
	}
	defer closeServices()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Pick up on-disk prompt edits without a restart.
	if watcher, ok := promptStore.(interface{ Watch(context.Context) error }); ok {
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Warn("Prompt watcher stopped: %v", err)
			}
		}()
	}

	cmd.Print(renderBanner(version))

	session := domain.NewSession()
	reader := bufio.NewReader(cmd.InOrStdin())

	for {
		cmd.Print(renderPrompt())

		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				cmd.Println()
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit", "q":
			cmd.Println(renderInfo("Goodbye."))
			return nil
		case "new", "reset":
			session.Reset()
			cmd.Println(renderInfo("Started a new research session."))
			continue
		case "help":
			cmd.Println(cmd.Long)
			continue
		case "jurisdictions":
			cmd.Print(renderJurisdictions())
			continue
		}

		if position, err := strconv.Atoi(input); err == nil {
			analyzeResult(ctx, cmd, session, position)
			continue
		}

		researchTurn(ctx, cmd, session, input)
	}
}

// researchTurn runs one natural-language turn and prints the outcome.
func researchTurn(ctx context.Context, cmd *cobra.Command, session *domain.Session, input string) {
	cmd.Println(renderInfo("Researching..."))

	outcome, err := researchService.Research(ctx, session, input)
	if err != nil {
		cmd.Println(renderError(turnErrorMessage(err)))
		return
	}

	if !outcome.Searched {
		cmd.Println(renderReply(outcome.Reply))
		return
	}

	if outcome.Degraded != "" {
		cmd.Println(renderWarning(fmt.Sprintf(
			"The %s search branch was unavailable; showing partial results.", outcome.Degraded)))
	}
	cmd.Print(renderResults(outcome.Results))
	if outcome.Results.Len() > 0 {
		cmd.Println(renderInfo(fmt.Sprintf(
			"Enter a number (1-%d) to fetch and analyze that opinion.", outcome.Results.Len())))
	} else {
		cmd.Println(renderInfo("No cases matched. Try rephrasing or broadening the jurisdiction."))
	}
}

// analyzeResult drills into one result from the last search.
func analyzeResult(ctx context.Context, cmd *cobra.Command, session *domain.Session, position int) {
	if session.Results.Len() == 0 {
		cmd.Println(renderError("No results to analyze yet. Run a search first."))
		return
	}

	cmd.Println(renderInfo("Fetching opinion..."))

	analysis, err := researchService.Analyze(ctx, session, position)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSelectionOutOfRange):
			cmd.Println(renderError(fmt.Sprintf(
				"Pick a number between 1 and %d.", session.Results.Len())))
		case errors.Is(err, domain.ErrNotFound):
			cmd.Println(renderError("The full text of that opinion is not available."))
		default:
			cmd.Println(renderError(turnErrorMessage(err)))
		}
		return
	}

	cmd.Print(renderAnalysis(analysis))
}

// turnErrorMessage maps service errors to user-facing text. The session
// survives every turn failure.
func turnErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoToolCall):
		return "Could not parse a search intent from that. Try rephrasing your research question."
	case errors.Is(err, domain.ErrSearchUnavailable):
		return "Both search branches failed. Check your connection and try again."
	case errors.Is(err, domain.ErrLLMUnavailable):
		return "The language model is unreachable. Try again in a moment."
	case errors.Is(err, domain.ErrRateLimited):
		return "Rate limited. Wait a moment before retrying."
	case errors.Is(err, domain.ErrAuthInvalid):
		return "An API credential was rejected. Check your keys."
	case errors.Is(err, domain.ErrInvalidInput):
		return "Please enter a research question."
	default:
		return fmt.Sprintf("That turn failed: %v", err)
	}
}
