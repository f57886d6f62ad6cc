// Package cli provides the command-line interface for Yevrah, an
// AI-assisted legal case-law research assistant.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yevrah-labs/yevrah-cli/internal/adapters/driven/caselaw/courtlistener"
	configfile "github.com/yevrah-labs/yevrah-cli/internal/adapters/driven/config/file"
	"github.com/yevrah-labs/yevrah-cli/internal/adapters/driven/llm/groq"
	"github.com/yevrah-labs/yevrah-cli/internal/adapters/driven/rerank/cohere"
	"github.com/yevrah-labs/yevrah-cli/internal/core/ports/driven"
	"github.com/yevrah-labs/yevrah-cli/internal/core/ports/driving"
	"github.com/yevrah-labs/yevrah-cli/internal/core/services"
	"github.com/yevrah-labs/yevrah-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "yevrah",
	Short: "AI-assisted legal case-law research",
	Long: `Yevrah is a legal research assistant for US case law.

Describe what you are researching in plain language and Yevrah runs a
dual search against CourtListener: an exact keyword query alongside a
semantic (meaning-based) query, merged into one numbered list. Pick a
result by number to fetch the full opinion and get a focused analysis.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// researchService is the injected application service. Commands build
// it lazily from the environment unless a test has injected one.
var researchService driving.ResearchService

// promptStore backs prompt customisation and live reload in the chat
// loop.
var promptStore driven.PromptStore

// serviceCleanup tears down the built services after the command runs.
var serviceCleanup func() error

// SetResearchService injects a research service, bypassing environment
// wiring.
func SetResearchService(svc driving.ResearchService) {
	researchService = svc
}

// configSetting returns env when set, otherwise the config store value
// for key.
func configSetting(store driven.ConfigStore, env, key string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	if store != nil {
		return store.GetString(key)
	}
	return ""
}

// ensureServices builds the research service from the environment and
// config file. The CourtListener key is always required; the Groq key
// only for surfaces that interpret natural language. The Cohere key is
// optional and its absence just disables reranking.
func ensureServices(requireLLM bool) error {
	if researchService != nil {
		return nil
	}

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		logger.Warn("Config store unavailable: %v", err)
	}
	var store driven.ConfigStore
	if configStore != nil {
		store = configStore
	}

	courtListenerKey := os.Getenv("COURTLISTENER_API_KEY")
	if courtListenerKey == "" {
		return fmt.Errorf("COURTLISTENER_API_KEY is not set (get a token at https://www.courtlistener.com/help/api/rest/)")
	}

	caselaw, err := courtlistener.NewClient(courtlistener.Config{
		APIKey:  courtListenerKey,
		BaseURL: configSetting(store, "COURTLISTENER_BASE_URL", "courtlistener.base_url"),
	})
	if err != nil {
		return fmt.Errorf("case-law client: %w", err)
	}

	var llmService driven.LLMService
	if groqKey := os.Getenv("GROQ_API_KEY"); groqKey != "" {
		groqService, err := groq.NewLLMService(groq.LLMConfig{
			APIKey:  groqKey,
			BaseURL: configSetting(store, "GROQ_BASE_URL", "groq.base_url"),
			Model:   configSetting(store, "GROQ_MODEL", "groq.model"),
		})
		if err != nil {
			return fmt.Errorf("LLM service: %w", err)
		}
		llmService = groqService
	} else if requireLLM {
		return fmt.Errorf("GROQ_API_KEY is not set (required for conversational research; use 'yevrah search' for direct queries)")
	}

	var reranker driven.Reranker
	if cohereKey := os.Getenv("COHERE_API_KEY"); cohereKey != "" {
		cohereReranker, err := cohere.NewReranker(cohere.Config{
			APIKey: cohereKey,
			Model:  configSetting(store, "COHERE_RERANK_MODEL", "cohere.model"),
		})
		if err != nil {
			return fmt.Errorf("reranker: %w", err)
		}
		reranker = cohereReranker
		logger.Info("Semantic reranking enabled (%s)", cohereReranker.ModelName())
	} else {
		logger.Info("COHERE_API_KEY not set, results keep backend order")
	}

	prompts, err := configfile.NewPromptStore("")
	if err != nil {
		logger.Warn("Prompt store unavailable, using built-in prompts: %v", err)
	} else {
		promptStore = prompts
		if aware, ok := llmService.(driven.PromptStoreAware); ok {
			aware.SetPromptStore(prompts)
		}
	}

	svc := services.NewResearchService(llmService, caselaw, reranker)
	if promptStore != nil {
		svc.SetPromptStore(promptStore)
	}

	researchService = svc
	serviceCleanup = svc.Close

	if llmService != nil {
		pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := llmService.Ping(pingCtx); err != nil {
			logger.Warn("LLM ping failed: %v", err)
		}
	}

	return nil
}

// closeServices runs the cleanup hook set by ensureServices.
func closeServices() {
	if serviceCleanup != nil {
		if err := serviceCleanup(); err != nil {
			logger.Warn("Service shutdown: %v", err)
		}
		serviceCleanup = nil
	}
	researchService = nil
	promptStore = nil
}
