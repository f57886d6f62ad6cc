package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "yevrah", rootCmd.Use)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"chat", "search", "jurisdictions", "config", "version"} {
		assert.True(t, names[want], "expected subcommand %s", want)
	}
}

func TestVersionCmd_PrintsVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "yevrah version")
}

func TestEnsureServices_RequiresBackendKey(t *testing.T) {
	t.Setenv("COURTLISTENER_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	err := ensureServices(false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "COURTLISTENER_API_KEY")
}

func TestEnsureServices_ChatRequiresLLMKey(t *testing.T) {
	t.Setenv("COURTLISTENER_API_KEY", "cl-token")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("HOME", t.TempDir())
	defer closeServices()

	err := ensureServices(true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}

func TestEnsureServices_SearchOnlyNeedsBackendKey(t *testing.T) {
	t.Setenv("COURTLISTENER_API_KEY", "cl-token")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("COHERE_API_KEY", "")
	t.Setenv("HOME", t.TempDir())
	defer closeServices()

	err := ensureServices(false)

	assert.NoError(t, err)
	assert.NotNil(t, researchService)
}

func TestEnsureServices_InjectedServiceWins(t *testing.T) {
	mock, cleanup := setupTestServices()
	defer cleanup()

	err := ensureServices(true)

	require.NoError(t, err)
	assert.Same(t, researchService, mock)
}

func TestConfigSetting_EnvOverridesStore(t *testing.T) {
	t.Setenv("GROQ_MODEL", "llama-3.1-8b-instant")

	assert.Equal(t, "llama-3.1-8b-instant", configSetting(nil, "GROQ_MODEL", "groq.model"))

	t.Setenv("GROQ_MODEL", "")
	assert.Equal(t, "", configSetting(nil, "GROQ_MODEL", "groq.model"))
}
