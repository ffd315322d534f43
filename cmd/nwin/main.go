// Package main is the entry point for nwin, a multigrid editor client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/nwin/internal/app"
	"github.com/dshills/nwin/internal/config"
	"github.com/dshills/nwin/internal/config/watcher"
	"github.com/dshills/nwin/internal/nvim"
	"github.com/dshills/nwin/internal/renderer/backend"
	"github.com/dshills/nwin/internal/renderer/backend/raster"
	"github.com/dshills/nwin/internal/renderer/backend/terminal"
	"github.com/dshills/nwin/internal/wm"
	"github.com/dshills/nwin/internal/wm/i3ipc"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	configPath  string
	backend     string
	logLevel    string
	logFile     string
	font        string
	snapshots   string
	noMultigrid bool
	noWM        bool
}

func main() {
	os.Exit(run())
}

func run() int {
	f, editorArgs := parseFlags()

	var copts []config.Option
	if f.configPath != "" {
		copts = append(copts, config.WithFile(f.configPath))
	}
	cfg := config.New(copts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if err := applyFlags(cfg, f, editorArgs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()
	for path, err := range cfg.ConfigErrors() {
		logger.Warn("config %s: %v", path, err)
	}

	be, err := newBackend(cfg.UI())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create backend: %v\n", err)
		return 1
	}

	ed := cfg.Editor()
	editor, err := nvim.Start(ctx, nvim.Options{Command: ed.Command, Args: ed.Args}, logger.WithComponent("nvim"))
	if err != nil {
		be.Shutdown()
		fmt.Fprintf(os.Stderr, "Error: failed to start editor: %v\n", err)
		return 1
	}

	multigrid := ed.Multigrid && be.MultiWindow()
	reconciler := newReconciler(ctx, cfg.WM(), multigrid, logger)

	var events <-chan watcher.Event
	if w, err := watchConfig(cfg.Path(), logger); err != nil {
		logger.Warn("config reload disabled: %v", err)
	} else if w != nil {
		defer w.Close()
		events = w.Events()
	}

	application, err := app.New(app.Options{
		Backend:      be,
		Editor:       editor,
		Config:       cfg,
		ConfigEvents: events,
		Reconciler:   reconciler,
		Logger:       logger,
		Multigrid:    multigrid,
	})
	if err != nil {
		_ = editor.Close()
		be.Shutdown()
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	runErr := application.Run(ctx)
	if err := application.Close(); err != nil {
		logger.Debug("close: %v", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return 1
	}
	snap := application.Metrics().Snapshot()
	logger.Info("%d frames, %.1f fps average, %d overruns", snap.Frames.Count, snap.AvgFPS(), snap.Overruns)
	return 0
}

func parseFlags() (flags, []string) {
	var f flags
	var showVersion bool

	flag.StringVar(&f.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&f.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&f.backend, "backend", "", "Window backend (terminal, raster)")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	flag.StringVar(&f.font, "font", "", "TrueType/OpenType font for the raster backend")
	flag.StringVar(&f.snapshots, "snapshots", "", "Directory for PNG frame snapshots (raster backend)")
	flag.BoolVar(&f.noMultigrid, "no-multigrid", false, "Draw all editor windows in one window")
	flag.BoolVar(&f.noWM, "no-wm", false, "Disable tiling window manager reconciliation")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "nwin - multigrid editor client\n\n")
		fmt.Fprintf(os.Stderr, "Usage: nwin [options] [-- editor args...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  nwin                          Run in the terminal\n")
		fmt.Fprintf(os.Stderr, "  nwin -- main.go               Open a file\n")
		fmt.Fprintf(os.Stderr, "  nwin -backend raster -snapshots /tmp/frames -- +qa\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("nwin %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}
	return f, flag.Args()
}

// applyFlags stores the given flags in the flag layer of cfg.
func applyFlags(cfg *config.Config, f flags, editorArgs []string) error {
	set := []struct {
		path  string
		value any
		ok    bool
	}{
		{"ui.backend", f.backend, f.backend != ""},
		{"log.level", f.logLevel, f.logLevel != ""},
		{"log.file", f.logFile, f.logFile != ""},
		{"ui.font_path", f.font, f.font != ""},
		{"ui.snapshot_dir", f.snapshots, f.snapshots != ""},
		{"editor.multigrid", false, f.noMultigrid},
		{"wm.enabled", false, f.noWM},
		{"editor.args", toAny(editorArgs), len(editorArgs) > 0},
	}
	for _, s := range set {
		if !s.ok {
			continue
		}
		if err := cfg.Set(s.path, s.value); err != nil {
			return fmt.Errorf("flag for %s: %w", s.path, err)
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// newLogger logs to log.file, or to stderr unless the terminal backend
// owns the screen.
func newLogger(cfg *config.Config) (*app.Logger, func(), error) {
	lc := cfg.Log()
	out := io.Writer(os.Stderr)
	closeFn := func() {}
	switch {
	case lc.File != "":
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	case cfg.UI().Backend == config.BackendTerminal:
		out = io.Discard
	}

	logger := app.NewSessionLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(lc.Level),
		Output: out,
		Prefix: "nwin",
	})
	return logger, closeFn, nil
}

func newBackend(ui config.UIConfig) (backend.Backend, error) {
	switch ui.Backend {
	case config.BackendRaster:
		var opts []raster.Option
		if ui.FontPath != "" {
			f, err := raster.LoadFont(ui.FontPath, ui.FontSize)
			if err != nil {
				return nil, err
			}
			opts = append(opts, raster.WithFont(f))
		}
		if ui.SnapshotDir != "" {
			if err := os.MkdirAll(ui.SnapshotDir, 0o755); err != nil {
				return nil, err
			}
			opts = append(opts, raster.WithSnapshots(ui.SnapshotDir))
		}
		return raster.New(opts...), nil
	default:
		t, err := terminal.New()
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}

// newReconciler connects to the window manager when windows are external
// and reconciliation is enabled. Without a socket it returns a disabled
// reconciler.
func newReconciler(ctx context.Context, wc config.WMConfig, multigrid bool, logger *app.Logger) *wm.Reconciler {
	log := logger.WithComponent("wm")
	if !wc.Enabled || !multigrid {
		return wm.New(nil, log)
	}
	client, err := i3ipc.Connect(ctx, wc.SocketPath)
	if err != nil {
		if errors.Is(err, i3ipc.ErrNoSocket) {
			log.Warn("no window manager socket found, layout reconciliation disabled")
		} else {
			log.Warn("window manager connection failed, layout reconciliation disabled: %v", err)
		}
		return wm.New(nil, log)
	}
	log.Info("connected to window manager at %s", client.Path())
	return wm.New(client, log)
}

// watchConfig watches the config file for changes. It returns nil when
// there is no file to watch.
func watchConfig(path string, logger *app.Logger) (*watcher.Watcher, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	w, err := watcher.New()
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, err
	}
	go func() {
		for err := range w.Errors() {
			logger.Warn("config watcher: %v", err)
		}
	}()
	return w, nil
}
