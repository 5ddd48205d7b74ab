package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagechat/internal/core/ports/driving"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and check application settings",
	Long: `View the effective settings after the config file and environment are applied.

Settings live in config.toml under the home directory. API keys are read
from OPENAI_API_KEY and are never written to the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the providers are reachable",
	Long:  `Send a small request to the embedding and chat providers to verify the model names and API key.`,
	RunE:  runSettingsCheck,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current settings to config.toml",
	Long: `Write the effective settings to config.toml so they can be edited.
Existing values are kept.`,
	RunE: runSettingsInit,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(settingsCmd)
}

// openSettings resolves the home directory and returns its settings service.
func openSettings() (driving.SettingsService, error) {
	if factory == nil {
		return nil, errors.New("settings service not configured")
	}
	home, err := resolveHome()
	if err != nil {
		return nil, err
	}
	return factory.Settings(home)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settingsService, err := openSettings()
	if err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Sources]")
	for _, u := range settings.Sources.URLs {
		cmd.Printf("  - %s\n", u)
	}
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d\n", settings.Chunking.Size)
	cmd.Printf("  Overlap: %d\n", settings.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	printBaseURL(cmd, settings.Embedding.BaseURL)
	printAPIKey(cmd, settings.Embedding.APIKey)
	cmd.Printf("  Batch size: %d\n", settings.Embedding.BatchSize)
	cmd.Printf("  Requests per second: %g\n", settings.Embedding.RequestsPerSecond)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	printBaseURL(cmd, settings.LLM.BaseURL)
	printAPIKey(cmd, settings.LLM.APIKey)
	cmd.Printf("  Temperature: %g\n", settings.LLM.Temperature)
	if settings.LLM.MaxTokens > 0 {
		cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Metric: %s\n", settings.Retrieval.Metric)
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Persist: %s\n", yesNo(settings.Index.Persist))
	cmd.Println()

	cmd.Println("[Fetch]")
	cmd.Printf("  Timeout: %s\n", settings.Fetch.Timeout)
	cmd.Printf("  User agent: %s\n", settings.Fetch.UserAgent)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Set OPENAI_API_KEY or fix config.toml, then run 'pagechat settings show' again.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	settingsService, err := openSettings()
	if err != nil {
		return err
	}

	if err := settingsService.Validate(); err != nil {
		return err
	}

	var failed []string
	cmd.Print("Embedding provider... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("failed: %v\n", err)
		failed = append(failed, "embedding")
	} else {
		cmd.Println("ok")
	}

	cmd.Print("Chat provider... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("failed: %v\n", err)
		failed = append(failed, "llm")
	} else {
		cmd.Println("ok")
	}

	if len(failed) > 0 {
		return fmt.Errorf("provider check failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

func runSettingsInit(cmd *cobra.Command, _ []string) error {
	settingsService, err := openSettings()
	if err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Settings saved.")
	return nil
}

func printBaseURL(cmd *cobra.Command, baseURL string) {
	if baseURL == "" {
		cmd.Println("  Base URL: (default)")
		return
	}
	cmd.Printf("  Base URL: %s\n", baseURL)
}

func printAPIKey(cmd *cobra.Command, key string) {
	if key == "" {
		cmd.Println("  API Key: (not set)")
		return
	}
	cmd.Printf("  API Key: %s\n", maskAPIKey(key))
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// maskAPIKey masks an API key for display.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
