// Command backlog manages epics and stories stored in a local state file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"backlog/internal/config"
	"backlog/internal/repository"
	"backlog/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds what the commands share for one invocation
type app struct {
	// Global flags
	configPath string
	dbPath     string
	driver     string
	verbose    bool

	cfg       *config.Config
	logger    *zap.Logger
	repo      repository.Repository
	closeRepo func() error
	tracker   *service.Tracker

	events     chan service.Event
	eventsDone chan struct{}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.shutdown()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", userMessage(err))
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "backlog",
		Short: "Track epics and their stories in a local file",
		Long: `backlog keeps a single-user hierarchy of epics and stories.

Every command loads the whole state, applies one change and saves it back.
The state lives in ./data/db.json unless configured otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default: search standard locations)")
	flags.StringVar(&a.dbPath, "db", "", "state location, overrides storage.path")
	flags.StringVar(&a.driver, "driver", "", "storage driver: file or sqlite")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newInitCmd(a),
		newBoardCmd(a),
		newEpicCmd(a),
		newStoryCmd(a),
		newWatchCmd(a),
		newImportCmd(a),
	)
	return root
}

// setup resolves config, logger and store before any subcommand runs
func (a *app) setup() error {
	var err error
	if a.configPath != "" {
		a.cfg, _, err = config.LoadFromPath(a.configPath)
	} else {
		a.cfg, _, err = config.Load()
	}
	if err != nil {
		return err
	}

	if a.driver != "" {
		a.cfg.Storage.Driver = config.Driver(a.driver)
		if a.dbPath == "" && a.cfg.Storage.Driver == config.DriverSQLite && a.cfg.Storage.Path == config.DefaultStatePath {
			a.cfg.Storage.Path = "./data/backlog.db"
		}
	}
	if a.dbPath != "" {
		a.cfg.Storage.Path = a.dbPath
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if a.logger == nil {
		if a.logger, err = buildLogger(a.cfg, a.verbose); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	a.logger.Debug("configuration resolved",
		zap.String("driver", string(a.cfg.Storage.Driver)),
		zap.String("path", a.cfg.Storage.Path))

	a.repo, a.closeRepo, err = openRepository(a.cfg)
	if err != nil {
		return err
	}

	bus := service.NewEventBus()
	a.events = make(chan service.Event, 16)
	a.eventsDone = make(chan struct{})
	bus.Subscribe(a.events)
	go a.logEvents()

	a.tracker = service.NewTracker(a.repo,
		service.WithLogger(a.logger.Named("tracker")),
		service.WithEventBus(bus))
	return nil
}

func (a *app) logEvents() {
	defer close(a.eventsDone)
	for event := range a.events {
		a.logger.Debug("event", zap.String("type", string(event.Type)), zap.Any("payload", event.Payload))
	}
}

// shutdown releases what setup acquired. It runs even when the command
// failed, which PersistentPostRun does not.
func (a *app) shutdown() {
	if a.events != nil {
		close(a.events)
		<-a.eventsDone
		a.events = nil
	}
	if a.closeRepo != nil {
		if err := a.closeRepo(); err != nil && a.logger != nil {
			a.logger.Warn("failed to close store", zap.Error(err))
		}
		a.closeRepo = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func buildLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	level, err := cfg.ZapLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
