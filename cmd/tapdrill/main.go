// Package main provides the CLI entrypoint for tapdrill.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tapdrill/internal/config"
	"github.com/verte-zerg/tapdrill/internal/generator"
	"github.com/verte-zerg/tapdrill/internal/logging"
	"github.com/verte-zerg/tapdrill/internal/model"
	"github.com/verte-zerg/tapdrill/internal/session"
	"github.com/verte-zerg/tapdrill/internal/stats"
	"github.com/verte-zerg/tapdrill/internal/statsui"
	"github.com/verte-zerg/tapdrill/internal/store"
	"github.com/verte-zerg/tapdrill/internal/theme"
	"github.com/verte-zerg/tapdrill/internal/tui"
	"github.com/verte-zerg/tapdrill/internal/wordlist"
)

const (
	defaultMode        = "normal"
	defaultLength      = "medium"
	defaultStatsWindow = 5
	defaultWeakTop     = 10
	minTrendCount      = 10
	maxTrendCount      = 60
)

var (
	practiceMode     string
	practiceLength   string
	practiceWordList string

	storageKind string
	logLevel    string
	logFile     string

	statsLast   int
	statsWindow int
	statsTop    int
	statsPlain  bool

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tapdrill",
		Short:         "Adaptive terminal typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "practice mode: normal, weak or a finger such as left-index")
	rootCmd.Flags().StringVar(&practiceLength, "length", defaultLength, "passage length: short, medium or long")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "custom word list file, one word per line")

	rootCmd.PersistentFlags().StringVar(&storageKind, "storage", model.StorageJSON, "history storage: json or sqlite")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (default: $XDG_STATE_HOME/tapdrill/tapdrill.log)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

// loadSettings merges the config file under the flags and validates the result.
func loadSettings(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyStringConfig(cmd, "length", &practiceLength, fileCfg.Practice.Length)
	applyStringConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)
	applyStringConfig(cmd, "storage", &storageKind, fileCfg.Practice.Storage)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	return config.Resolve(config.Options{
		Mode:     practiceMode,
		Length:   practiceLength,
		Storage:  storageKind,
		WordList: practiceWordList,
	})
}

func openLogger() (*logrus.Logger, io.Closer, error) {
	path := logFile
	if path == "" {
		path = config.DefaultLogPath()
	}
	logger, closer, err := logging.New(logLevel, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, closer, nil
}

func openStore(cfg model.Config) (store.HistoryStore, error) {
	path := config.DefaultHistoryPath(cfg.Storage)
	st, err := store.Open(cfg.Storage, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history %s: %w", path, err)
	}
	return st, nil
}

func closeStore(st store.HistoryStore) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close history: %v\n", cerr)
	}
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, logCloser, err := openLogger()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logCloser.Close(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}()

	gen := generator.New()
	if cfg.WordList != "" {
		words, err := wordlist.LoadWords(cfg.WordList, wordlist.BasicLatin)
		if err != nil {
			return fmt.Errorf("failed to load word list: %w", err)
		}
		gen.WithWords(words)
		logger.WithFields(logrus.Fields{"path": cfg.WordList, "words": len(words)}).Info("custom word list loaded")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	themePath := config.DefaultThemePath()
	th, err := theme.Load(themePath)
	if err != nil {
		logger.WithError(err).Warn("failed to load theme; using default")
	}

	engine := session.New(cmd.Context(), gen, st,
		session.WithLogger(logger),
		session.WithMode(cfg.Mode),
		session.WithLength(cfg.Length),
	)
	logger.WithFields(logrus.Fields{
		"mode":    cfg.Mode.Slug(),
		"length":  cfg.Length.Name(),
		"storage": cfg.Storage,
		"results": engine.Progress().Len(),
	}).Info("practice started")

	program := tea.NewProgram(tui.NewModel(engine, th, themePath, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsWindow, "window", defaultStatsWindow, "rolling average window")
	cmd.Flags().IntVar(&statsTop, "top", defaultWeakTop, "number of weak characters to list")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, logCloser, err := openLogger()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logCloser.Close(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}()
	progress, err := loadProgress(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	if !statsPlain && isTerminal(os.Stdout) {
		th, err := theme.Load(config.DefaultThemePath())
		if err != nil {
			logErrf("failed to load theme: %v\n", err)
		}
		program := tea.NewProgram(statsui.NewModel(&progress, th, statsLast, statsWindow), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}
	return writeStatsReport(cmd.OutOrStdout(), progress.Recent(statsLast), trendCount(os.Stdout), statsWindow, statsTop)
}

// loadProgress reads the history for reporting. Unreadable history is logged
// and reported as empty, the same way practice treats it.
func loadProgress(ctx context.Context, cfg model.Config, logger logrus.FieldLogger) (stats.Progress, error) {
	st, err := openStore(cfg)
	if err != nil {
		return stats.Progress{}, err
	}
	defer closeStore(st)
	return *store.LoadOrEmpty(ctx, st, logger), nil
}

func writeStatsReport(w io.Writer, p *stats.Progress, count, window, top int) error {
	if err := stats.RenderSummary(w, p); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if p.Len() == 0 {
		return nil
	}
	if err := stats.RenderTrend(w, p, count, window); err != nil {
		return fmt.Errorf("failed to write trend: %w", err)
	}
	if err := stats.RenderWeakChars(w, p, top); err != nil {
		return fmt.Errorf("failed to write weak chars: %w", err)
	}
	return nil
}

// trendCount sizes the sparkline to the terminal, leaving room for its label.
func trendCount(f *os.File) int {
	if !isTerminal(f) {
		return maxTrendCount
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return maxTrendCount
	}
	return max(minTrendCount, min(width-50, maxTrendCount))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all practice history",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if !resetYes {
		if !isTerminal(os.Stdin) {
			return fmt.Errorf("refusing to reset without --yes when stdin is not a terminal")
		}
		progress, err := st.Load(cmd.Context())
		if err != nil {
			logErrf("history is unreadable: %v\n", err)
		}
		ok, err := confirm(os.Stdin, cmd.OutOrStdout(), fmt.Sprintf("Delete all %d results? This cannot be undone. [y/N] ", len(progress.Results)))
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Aborted.")
			return nil
		}
	}
	if err := st.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	logErrln("History cleared.")
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
