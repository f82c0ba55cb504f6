package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/fiscal-auditor/adminctl/internal/actions"
	"github.com/fiscal-auditor/adminctl/internal/api"
	"github.com/fiscal-auditor/adminctl/internal/audit"
	"github.com/fiscal-auditor/adminctl/internal/clipboard"
	"github.com/fiscal-auditor/adminctl/internal/config"
	"github.com/fiscal-auditor/adminctl/internal/notify"
	"github.com/fiscal-auditor/adminctl/internal/tui"
)

// ErrReported is returned when the failure was already shown to the user.
var ErrReported = errors.New("reported")

var (
	configPath string
	baseURL    string

	cfg     config.Config
	loc     *time.Location
	logger  *slog.Logger
	client  *api.Client
	store   *audit.Store
	closers []io.Closer
)

func Execute() error {
	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "Admin console for the fiscal-auditor scheduler and ETL backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/adminctl/config.toml)")
	root.PersistentFlags().StringVar(&baseURL, "api", "", "backend base URL (overrides api.base_url)")

	root.AddCommand(jobsCmd(), processesCmd(), healthCmd(), activityCmd())
	return root.ExecuteContext(context.Background())
}

func setup() error {
	if configPath != "" {
		if err := os.Setenv("ADMINCTL_CONFIG", configPath); err != nil {
			return err
		}
	}
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}

	logger, err = openLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	slog.SetDefault(logger)

	loc, err = time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		logger.Warn("using local timezone due to load failure", "tz", cfg.UI.Timezone, "err", err)
		loc = time.Local
	}

	client, err = api.New(cfg.API.BaseURL, cfg.API.Timeout, api.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	// the activity log is optional; actions still run without it
	if cfg.Audit.Path != "" {
		if s, err := audit.Open(cfg.Audit.Path); err != nil {
			logger.Warn("audit disabled", "path", cfg.Audit.Path, "err", err)
		} else {
			store = s
			closers = append(closers, s)
		}
	}
	return nil
}

func teardown() {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i].Close()
	}
	closers = nil
}

func openLogger(lc config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(lc.Level))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), nil
	}
	if err := os.MkdirAll(filepath.Dir(lc.Path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(lc.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	closers = append(closers, f)
	return slog.New(slog.NewTextHandler(f, opts)), nil
}

func delays() actions.Delays {
	return actions.Delays{
		Delete: cfg.Actions.DeleteRefresh,
		Run:    cfg.Actions.RunRefresh,
		Toggle: cfg.Actions.ToggleRefresh,
	}
}

// auditor avoids handing a typed nil *audit.Store to the interface.
func auditor() actions.Auditor {
	if store == nil {
		return nil
	}
	return store
}

func stderrNotifier() notify.Notifier {
	return notify.NewWriterNotifier(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
}

// cliRunner reports outcomes on stderr.
func cliRunner() *actions.Runner {
	return &actions.Runner{
		Backend:  client,
		Notifier: stderrNotifier(),
		Audit:    auditor(),
		Delays:   delays(),
		Log:      logger,
	}
}

func runTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// the TUI collects outcomes itself; the runner stays silent
	runner := &actions.Runner{Backend: client, Audit: auditor(), Delays: delays(), Log: logger}
	services := tui.Services{Backend: client, Runner: runner, Copier: clipboard.NewOSC52()}
	if store != nil {
		services.Activity = store
	}

	p := tea.NewProgram(tui.New(ctx, cfg, services, loc), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// outcomeErr maps a failed action to ErrReported; its notification already
// went to stderr.
func outcomeErr(o actions.Outcome) error {
	if o.Skipped || o.OK {
		return nil
	}
	return ErrReported
}
