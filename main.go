package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ecoveridian/backdrop/config"
	"github.com/ecoveridian/backdrop/dashboard"
	"github.com/ecoveridian/backdrop/headless"
	"github.com/ecoveridian/backdrop/term"
	"github.com/ecoveridian/backdrop/window"
)

var (
	configPath string
	variant    string
	seed       int64
	logLevel   string
	logFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "backdrop",
		Short:         "interactive particle-field backgrounds",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runWindow,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	rootCmd.PersistentFlags().StringVar(&variant, "variant", "", "Variant: repulsion, flow or energy (empty = config)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "RNG seed (0 = config, then time-based)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of the default stream")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "render in a resizable window",
		RunE:  runWindow,
	}
	for _, cmd := range []*cobra.Command{rootCmd, windowCmd} {
		cmd.Flags().Bool("watch", false, "Reload --config when the file changes")
	}

	termCmd := &cobra.Command{
		Use:   "term",
		Short: "render in the terminal",
		RunE:  runTerm,
	}

	headlessCmd := &cobra.Command{
		Use:   "headless",
		Short: "run without a display and report field statistics",
		RunE:  runHeadless,
	}
	headlessCmd.Flags().Int("frames", 0, "Frames to simulate (0 = config)")
	headlessCmd.Flags().String("pointer", "", "Pointer script: none or sweep (empty = config)")
	headlessCmd.Flags().String("output-dir", "", "Directory for CSV logs and config snapshot")
	headlessCmd.Flags().Bool("plot", false, "Print a chart of mean rest displacement")

	dashboardCmd := &cobra.Command{
		Use:   "dashboard [export.json|-]",
		Short: "summarize a dashboard document export",
		Args:  cobra.ExactArgs(1),
		RunE:  runDashboard,
	}
	dashboardCmd.Flags().Int("width", 80, "Output width in columns")
	dashboardCmd.Flags().Int("limit", 0, "History rows shown (0 = config)")

	rootCmd.AddCommand(windowCmd, termCmd, headlessCmd, dashboardCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// setup loads the config and installs the JSON logger writing to w (or --log-file).
func setup(w io.Writer) (*config.Config, func(), error) {
	closeLog := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeLog = func() { f.Close() }
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))

	if err := config.Init(configPath); err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()
	if seed == 0 {
		seed = cfg.Field.Seed
	}
	return cfg, closeLog, nil
}

func runWindow(cmd *cobra.Command, _ []string) error {
	cfg, closeLog, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := window.Options{Variant: variant, Seed: seed}

	watch, _ := cmd.Flags().GetBool("watch")
	if watch {
		if configPath == "" {
			return errors.New("--watch needs --config")
		}
		w, err := config.NewWatcher(configPath, 0)
		if err != nil {
			return err
		}
		if err := w.Start(cmd.Context()); err != nil {
			return err
		}
		defer w.Stop()
		opts.Updates = w.Updates()
	}

	return window.Run(cmd.Context(), cfg, opts)
}

func runTerm(cmd *cobra.Command, _ []string) error {
	// The terminal owns stderr while drawing; log only to a file
	cfg, closeLog, err := setup(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	return term.Run(cmd.Context(), screen, cfg, term.Options{Variant: variant, Seed: seed})
}

func runHeadless(cmd *cobra.Command, _ []string) error {
	cfg, closeLog, err := setup(os.Stdout)
	if err != nil {
		return err
	}
	defer closeLog()

	frames, _ := cmd.Flags().GetInt("frames")
	pointer, _ := cmd.Flags().GetString("pointer")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	plot, _ := cmd.Flags().GetBool("plot")

	res, err := headless.Run(cmd.Context(), cfg, headless.Options{
		Variant:   variant,
		Seed:      seed,
		Frames:    frames,
		Pointer:   pointer,
		OutputDir: outputDir,
	})
	if errors.Is(err, context.Canceled) {
		slog.Info("headless run interrupted", "frames", res.Frames)
		err = nil
	}
	if err != nil {
		return err
	}

	if plot {
		if chart := headless.Plot(res.Displacement, 80, "mean rest displacement (px)"); chart != "" {
			fmt.Fprintln(cmd.OutOrStdout(), chart)
		}
	}
	return nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, closeLog, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening export: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := dashboard.LoadExport(r)
	if err != nil {
		return err
	}

	width, _ := cmd.Flags().GetInt("width")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.Dashboard.HistoryLimit
	}
	fmt.Fprint(cmd.OutOrStdout(), dashboard.Render(data.Recent(limit), width))
	return nil
}
