// Package cli provides the pagechat command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driving"
	"github.com/custodia-labs/pagechat/internal/logger"
)

// EnvHome overrides the default state directory.
const EnvHome = "PAGECHAT_HOME"

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose bool
	homeDir string
	envFile string
)

// PromptWatcher reloads prompt templates when they change on disk.
type PromptWatcher interface {
	Watch(ctx context.Context, ready chan<- struct{}) error
}

// Pipeline holds the services one chat or index run works with.
type Pipeline struct {
	Settings *domain.AppSettings
	Loader   driving.LoaderService
	Index    driving.IndexService
	Session  driving.SessionService

	// Prompts is optional.
	Prompts PromptWatcher

	// Close releases the stores and API clients.
	Close func() error
}

// Factory builds services once flags are parsed and the home directory is known.
type Factory interface {
	// Settings returns the settings service for home. It needs no credentials.
	Settings(home string) (driving.SettingsService, error)

	// Pipeline builds the full question answering pipeline for home.
	Pipeline(ctx context.Context, home string) (*Pipeline, error)
}

// factory is set by main before Execute.
var factory Factory

// SetFactory sets the service factory used by every command.
func SetFactory(f Factory) {
	factory = f
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "pagechat",
	Short: "Chat with a fixed set of web pages",
	Long: `pagechat loads a fixed list of web pages, indexes them with OpenAI
embeddings and answers questions about them in a conversation.

Follow-up questions can refer to earlier answers. The index is stored under
the home directory and reused until the pages or the embedding model change.

Running pagechat without a command starts a chat.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runChat,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "",
		"state directory (default $"+EnvHome+" or ~/.pagechat)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	addChatFlags(rootCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup applies the global flags before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if err := loadEnvFile(envFile); err != nil {
		return err
	}
	return nil
}

// loadEnvFile loads path into the environment. Variables already set win.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("loaded environment from %s", path)
	return nil
}

// resolveHome returns the state directory: --home, then $PAGECHAT_HOME,
// then ~/.pagechat.
func resolveHome() (string, error) {
	if homeDir != "" {
		return homeDir, nil
	}
	if env := os.Getenv(EnvHome); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".pagechat"), nil
}

// openPipeline resolves the home directory and builds the pipeline.
func openPipeline(ctx context.Context) (*Pipeline, string, error) {
	if factory == nil {
		return nil, "", errors.New("services not configured")
	}
	home, err := resolveHome()
	if err != nil {
		return nil, "", err
	}
	p, err := factory.Pipeline(ctx, home)
	if err != nil {
		return nil, "", err
	}
	return p, home, nil
}

// closePipeline releases p, logging failures.
func closePipeline(p *Pipeline) {
	if p == nil || p.Close == nil {
		return
	}
	if err := p.Close(); err != nil {
		logger.Warn("close: %v", err)
	}
}
