package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pagechat/internal/adapters/driving/tui"
	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driving"
	"github.com/custodia-labs/pagechat/internal/logger"
)

// logFileName is the TUI log file inside the home directory.
const logFileName = "pagechat.log"

var plain bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about the configured pages",
	Long: `Load the configured pages, make sure the index is current and start
a conversation.

An interactive terminal gets the full screen interface. When input is piped
or --plain is set, one question is read per line and each answer is printed
with its sources. Type "exit" or "quit" to end the session.`,
	RunE: runChat,
}

func init() {
	addChatFlags(chatCmd)
	rootCmd.AddCommand(chatCmd)
}

func addChatFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&plain, "plain", false, "read questions line by line instead of starting the TUI")
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, home, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer closePipeline(p)

	if err := prepareIndex(ctx, cmd, p, false); err != nil {
		return err
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	watchPrompts(watchCtx, p.Prompts)

	if plain || !isTerminal(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return runLines(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), p.Session)
	}
	return runTUI(ctx, home, p)
}

// prepareIndex loads the pages and ensures the index, reporting progress on cmd.
func prepareIndex(ctx context.Context, cmd *cobra.Command, p *Pipeline, rebuild bool) error {
	urls := p.Settings.Sources.URLs
	cmd.Printf("Loading %d pages...\n", len(urls))

	report, err := p.Loader.Load(ctx, urls)
	if err != nil {
		return fmt.Errorf("load pages: %w", err)
	}
	for _, f := range report.Failures {
		cmd.Printf("  skipped %s: %v\n", f.URL, f.Err)
	}

	var stats *domain.IndexStats
	if rebuild {
		stats, err = p.Index.Build(ctx, report.Documents)
	} else {
		stats, err = p.Index.Ensure(ctx, report.Documents)
	}
	if err != nil {
		return fmt.Errorf("index pages: %w", err)
	}

	state := "built"
	if stats.Reused {
		state = "reused"
	}
	cmd.Printf("Index %s: %d pages, %d chunks\n",
		state, len(report.Documents), stats.Manifest.ChunkCount)
	return nil
}

// watchPrompts reloads prompt templates in the background until ctx ends.
func watchPrompts(ctx context.Context, w PromptWatcher) {
	if w == nil {
		return
	}
	go func() {
		if err := w.Watch(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("prompt watcher stopped: %v", err)
		}
	}()
}

// isTerminal returns true if both in and out are interactive terminals.
func isTerminal(in io.Reader, out io.Writer) bool {
	inFile, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(inFile.Fd())) {
		return false
	}
	outFile, ok := out.(*os.File)
	return ok && term.IsTerminal(int(outFile.Fd()))
}

func runTUI(ctx context.Context, home string, p *Pipeline) error {
	restore, err := logger.RedirectToFile(filepath.Join(home, logFileName))
	if err != nil {
		return err
	}
	defer func() {
		if err := restore(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(p.Session), tui.Options{
		Title: p.Settings.UI.Title,
		Intro: p.Settings.UI.Intro,
	})
	if err != nil {
		return fmt.Errorf("create TUI: %w", err)
	}
	return app.WithContext(ctx).Run()
}

// runLines answers one question per input line until EOF or an exit command.
func runLines(ctx context.Context, in io.Reader, out io.Writer, session driving.SessionService) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if isExit(question) {
			return nil
		}

		answer, err := session.Ask(ctx, question)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}
		printAnswer(out, answer)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func isExit(s string) bool {
	switch strings.ToLower(s) {
	case "exit", "quit":
		return true
	}
	return false
}

func printAnswer(w io.Writer, answer *domain.Answer) {
	fmt.Fprintln(w, answer.Text)
	urls := answer.SourceURLs()
	if len(urls) > 0 {
		fmt.Fprintln(w, "Sources:")
		for _, u := range urls {
			fmt.Fprintf(w, "  - %s\n", u)
		}
	}
	fmt.Fprintln(w)
}
