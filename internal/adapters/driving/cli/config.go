package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/yevrah-labs/yevrah-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and set configuration defaults stored in ~/.yevrah/config.toml.

Environment variables override stored values at runtime. Recognised keys:

  groq.model             interpretation/analysis model (default llama-3.3-70b-versatile)
  groq.base_url          OpenAI-compatible endpoint override
  cohere.model           rerank model (default rerank-v3.5)
  courtlistener.base_url search backend endpoint override`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show stored configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

With only a key, the value is prompted for without echo, which keeps
secrets out of shell history.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	values := store.All()
	if len(values) == 0 {
		cmd.Println("No configuration stored.")
		cmd.Printf("Config file: %s\n", store.Path())
		return nil
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := fmt.Sprintf("%v", values[key])
		if isSecretKey(key) {
			value = maskValue(value)
		}
		cmd.Printf("%s = %s\n", key, value)
	}
	cmd.Printf("\nConfig file: %s\n", store.Path())
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	store, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	value, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	key := args[0]
	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		cmd.Printf("Value for %s: ", key)
		value = readSecret()
		cmd.Println()
	}
	if value == "" {
		return fmt.Errorf("empty value for %q", key)
	}

	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

// readSecret reads a value without echo when stdin is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if secret, err := term.ReadPassword(int(os.Stdin.Fd())); err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// isSecretKey reports whether a config key holds credential material.
func isSecretKey(key string) bool {
	return strings.HasSuffix(key, ".api_key") || strings.HasSuffix(key, ".token")
}

func maskValue(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
