// Package main provides the CLI entrypoint for memomu.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/memomu/internal/assets"
	"github.com/verte-zerg/memomu/internal/config"
	"github.com/verte-zerg/memomu/internal/model"
	"github.com/verte-zerg/memomu/internal/session"
	"github.com/verte-zerg/memomu/internal/stats"
	"github.com/verte-zerg/memomu/internal/store"
	"github.com/verte-zerg/memomu/internal/tables"
	"github.com/verte-zerg/memomu/internal/tui"
)

const (
	templateHighlightMs = 500
	templateGapMs       = 300
	defaultCurveWindow  = 5
	defaultChartHeight  = 8
)

var (
	playMode        string
	playSeed        int64
	playMute        bool
	playHighlightMs int
	playGapMs       int
	playTables      string
	playAvatar      string

	dbPath     string
	configPath string

	scoresMode string

	statsMode   string
	statsSince  string
	statsLast   int
	statsWindow int
	statsHeight int
)

type gameConfig struct {
	Mode      model.Mode
	Seed      int64
	Mute      bool
	Highlight time.Duration
	Gap       time.Duration
	Tables    string
	Avatar    int
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "memomu",
		Short:         "Terminal memory minigames",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: XDG config dir)")

	rootCmd.Flags().StringVar(&playMode, "mode", "", "start a mode directly ("+modeNames()+")")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed, 0 picks one from the clock")
	rootCmd.Flags().BoolVar(&playMute, "mute", false, "start with sound off")
	rootCmd.Flags().IntVar(&playHighlightMs, "highlight-ms", 0, "sequence highlight duration in ms, 0 uses the table")
	rootCmd.Flags().IntVar(&playGapMs, "gap-ms", 0, "gap between sequence steps in ms, 0 uses the table")
	rootCmd.Flags().StringVar(&playTables, "tables", "", "difficulty tables YAML override")
	rootCmd.Flags().StringVar(&playAvatar, "avatar", "", "battle avatar name, empty picks at random")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newModesCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &playMode, fileCfg.Game.Mode)
	applyInt64Config(cmd, "seed", &playSeed, fileCfg.Game.Seed)
	applyIntConfig(cmd, "highlight-ms", &playHighlightMs, fileCfg.Timing.HighlightMs)
	applyIntConfig(cmd, "gap-ms", &playGapMs, fileCfg.Timing.GapMs)
	applyStringConfig(cmd, "tables", &playTables, fileCfg.Tables.Path)
	applyStringConfig(cmd, "avatar", &playAvatar, fileCfg.Game.Avatar)
	if fileCfg.Game.Sound != nil && !cmd.Flags().Changed("mute") {
		playMute = !*fileCfg.Game.Sound
	}

	cfg, err := validateConfig(playMode, playHighlightMs, playGapMs, playAvatar)
	if err != nil {
		return err
	}
	cfg.Seed = playSeed
	cfg.Mute = playMute
	cfg.Tables = playTables

	tbl, err := loadTables(cfg.Tables)
	if err != nil {
		return err
	}

	st, err := store.Open(resolveDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m := tui.NewModel(tui.Options{
		Tables:    tbl,
		Store:     st,
		Seed:      cfg.Seed,
		Audio:     assets.NewAudio(os.Stdout, cfg.Mute),
		Highlight: cfg.Highlight,
		Gap:       cfg.Gap,
		Avatar:    cfg.Avatar,
		Mode:      cfg.Mode,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
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
	path := resolveConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
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

func newModesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modes",
		Short: "List game modes",
		Args:  cobra.NoArgs,
		RunE:  runModesCmd,
	}
	cmd.Flags().StringVar(&playTables, "tables", "", "difficulty tables YAML override")
	return cmd
}

func runModesCmd(cmd *cobra.Command, _ []string) error {
	tbl, err := loadTables(playTables)
	if err != nil {
		return err
	}
	return writeModes(cmd.OutOrStdout(), tbl)
}

func writeModes(w io.Writer, tbl tables.Tables) error {
	for _, mode := range model.AllModes {
		t := tbl[mode]
		line := fmt.Sprintf("%-8s %-15s %2d rounds  %dx%d", mode, mode.Title(), t.MaxRounds, t.Grid.Rows, t.Grid.Cols)
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show high scores",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.Flags().StringVar(&scoresMode, "mode", "", "mode filter")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	modes := model.AllModes
	if scoresMode != "" {
		mode, err := model.ParseMode(scoresMode)
		if err != nil {
			return fmt.Errorf("invalid --mode value: %w", err)
		}
		modes = []model.Mode{mode}
	}
	st, err := store.Open(resolveDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	board := session.LoadBoard(cmd.Context(), st, logErrf)
	return stats.RenderHighScores(cmd.OutOrStdout(), board.Snapshot(), modes)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsHeight, "height", defaultChartHeight, "chart height in rows")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig(statsMode, statsSince, statsLast, statsWindow)
	if err != nil {
		return err
	}
	if statsHeight <= 0 {
		return fmt.Errorf("--height must be > 0")
	}

	st, err := store.Open(resolveDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Summaries); err != nil {
		return err
	}
	if len(report.Sessions) > 0 {
		if err := stats.RenderCurves(out, report.Sessions, cfg.Window, 0, statsHeight, false); err != nil {
			return err
		}
	}
	if err := stats.RenderLastGame(out, report.LastGame); err != nil {
		return err
	}
	modes := model.AllModes
	if cfg.Mode != "" {
		modes = []model.Mode{cfg.Mode}
	}
	return stats.RenderHighScores(out, report.HighScores, modes)
}

func statsConfig(mode, since string, last, window int) (model.StatsConfig, error) {
	cfg := model.StatsConfig{Last: last, Window: window}
	if mode != "" {
		parsed, err := model.ParseMode(mode)
		if err != nil {
			return cfg, fmt.Errorf("invalid --mode value: %w", err)
		}
		cfg.Mode = parsed
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if last < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if window <= 0 {
		return cfg, fmt.Errorf("--curve-window must be > 0")
	}
	return cfg, nil
}

// loadTables reads path, or the default override file when it exists.
func loadTables(path string) (tables.Tables, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultTablesPath()); err == nil {
			path = config.DefaultTablesPath()
		}
	}
	tbl, err := tables.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tables: %w", err)
	}
	return tbl, nil
}

func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return config.DefaultDBPath()
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func validateConfig(mode string, highlightMs, gapMs int, avatar string) (gameConfig, error) {
	cfg := gameConfig{Avatar: -1}
	if mode != "" {
		parsed, err := model.ParseMode(mode)
		if err != nil {
			return cfg, fmt.Errorf("invalid --mode value: %w", err)
		}
		cfg.Mode = parsed
	}
	if highlightMs < 0 {
		return cfg, fmt.Errorf("--highlight-ms must be >= 0")
	}
	if gapMs < 0 {
		return cfg, fmt.Errorf("--gap-ms must be >= 0")
	}
	cfg.Highlight = time.Duration(highlightMs) * time.Millisecond
	cfg.Gap = time.Duration(gapMs) * time.Millisecond
	if avatar != "" {
		idx := avatarIndex(avatar)
		if idx < 0 {
			return cfg, fmt.Errorf("unknown avatar %q (available: %s)", avatar, strings.Join(session.AvatarNames, ", "))
		}
		cfg.Avatar = idx
	}
	return cfg, nil
}

func avatarIndex(name string) int {
	for i, n := range session.AvatarNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func modeNames() string {
	names := make([]string, 0, len(model.AllModes))
	for _, m := range model.AllModes {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
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

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# memomu configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# mode = "music"          # Start this mode directly (%s)
# seed = 0                # Random seed, 0 picks one from the clock
# sound = true            # Terminal bell on hits and misses
# avatar = "chog"         # Battle avatar (%s)

[timing]
# highlight-ms = %d      # Sequence highlight duration
# gap-ms = %d            # Gap between sequence steps

[tables]
# path = "%s"
`,
		modeNames(),
		strings.Join(session.AvatarNames, ", "),
		templateHighlightMs,
		templateGapMs,
		config.DefaultTablesPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
