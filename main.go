package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"loxremote/internal/config"
	"loxremote/internal/dispatch"
	"loxremote/internal/gesture"
	"loxremote/internal/loxone"
	"loxremote/internal/mapping"
	"loxremote/internal/remote"
	"loxremote/internal/ui"
)

const Version = "0.1.0"

func main() {
	// Check for subcommands first
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "discover":
			runDiscover(os.Args[2:])
			return
		case "check":
			runCheck(os.Args[2:])
			return
		case "init":
			runInit(os.Args[2:])
			return
		case "help", "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	configPath := flag.String("config", "config.yaml", "path to configuration file")
	version := flag.Bool("version", false, "print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if *version {
		ui.PrintVersion(Version)
		os.Exit(0)
	}

	watcher, err := config.NewWatcher(*configPath, slog.Default())
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}
	cfg := watcher.Get()

	logger, err := setupLogger(cfg.Logging.Level)
	if err != nil {
		ui.PrintFatalError("Failed to configure logging", err.Error())
		os.Exit(1)
	}
	slog.SetDefault(logger)

	app, err := newApp(cfg, watcher, logger)
	if err != nil {
		ui.PrintFatalError("Failed to initialize bridge", err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	logger.Info("starting loxremote",
		"miniserver", cfg.Miniserver.BaseURL,
		"remote", cfg.Remote.URL,
		"mappings", len(cfg.Mappings))

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("bridge error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func printUsage() {
	ui.PrintUsage(Version)
}

// App wires the event source, classifier, resolver and executor together.
type App struct {
	config     *config.Config
	logger     *slog.Logger
	watcher    *config.Watcher
	client     *loxone.Client
	resolver   *mapping.Resolver
	executor   *dispatch.Executor
	classifier *gesture.Classifier
	source     *remote.Source

	// dispatches run on their own context so they can drain during
	// shutdown after the run context is already cancelled
	dispatchCtx    context.Context
	dispatchCancel context.CancelFunc
	inflight       sync.WaitGroup
}

func newApp(cfg *config.Config, watcher *config.Watcher, logger *slog.Logger) (*App, error) {
	client, err := loxone.NewClient(
		cfg.Miniserver.BaseURL,
		cfg.Miniserver.Username,
		cfg.Miniserver.Password,
		time.Duration(cfg.Miniserver.TimeoutMs)*time.Millisecond,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create miniserver client: %w", err)
	}

	table, err := mapping.Build(cfg.Mappings)
	if err != nil {
		return nil, fmt.Errorf("failed to build mapping table: %w", err)
	}

	source, err := remote.NewSource(cfg.Remote.URL, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		config:   cfg,
		logger:   logger,
		watcher:  watcher,
		client:   client,
		resolver: mapping.NewResolver(table),
		source:   source,
		executor: dispatch.NewExecutor(client,
			time.Duration(cfg.Dispatch.RetryDelayMs)*time.Millisecond, logger),
	}
	app.dispatchCtx, app.dispatchCancel = context.WithCancel(context.Background())

	app.classifier = gesture.NewClassifier(
		time.Duration(cfg.Timing.LongPressThresholdMs)*time.Millisecond,
		time.Duration(cfg.Timing.DoublePressWindowMs)*time.Millisecond,
		app.onGesture,
	)

	watcher.OnReload(func(next *config.Config) {
		table, err := mapping.Build(next.Mappings)
		if err != nil {
			logger.Error("rejecting reloaded mappings", "error", err)
			return
		}
		app.resolver.Swap(table)
		logger.Info("mapping table replaced", "entries", table.Len())
	})

	return app, nil
}

// onGesture resolves a classified gesture and hands its commands to a
// dispatch goroutine. It runs inside the classifier and must stay fast.
func (a *App) onGesture(g gesture.Gesture) {
	commands, ok := a.resolver.Resolve(g.Button, g.Action)
	if !ok {
		a.logger.Debug("no mapping for gesture", "button", g.Button, "action", g.Action.String())
		return
	}

	a.logger.Info("gesture classified",
		"button", g.Button, "action", g.Action.String(), "commands", len(commands))

	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()
		outcomes := a.executor.Execute(a.dispatchCtx, commands)
		for _, o := range outcomes {
			if !o.Success() {
				a.logger.Warn("gesture dispatched with failures",
					"button", g.Button, "action", g.Action.String(), "command", o.Raw)
			}
		}
	}()
}

func (a *App) Run(ctx context.Context) error {
	a.watcher.Start()

	events := make(chan gesture.Event, 64)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.source.Run(ctx, events)
	})
	group.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-events:
				a.classifier.OnEvent(ev)
			}
		}
	})

	err := group.Wait()
	a.shutdown()
	return err
}

func (a *App) shutdown() {
	a.classifier.Stop()
	a.watcher.Stop()

	// Let in-flight dispatches drain, bounded by the configured grace
	grace := time.Duration(a.config.Dispatch.ShutdownGraceMs) * time.Millisecond
	done := make(chan struct{})
	go func() {
		a.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(grace):
		a.logger.Warn("shutdown grace elapsed with dispatches still in flight")
	}
	a.dispatchCancel()
}

// runDiscover handles the discover subcommand
func runDiscover(args []string) {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	pick := fs.Bool("pick", false, "interactively select a function")
	fs.Usage = ui.PrintDiscoverUsage

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, client := loadClient(*configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	structure, err := client.FetchStructure(ctx, "")
	if err != nil {
		ui.PrintFatalError("Failed to fetch miniserver structure", err.Error())
		os.Exit(1)
	}

	functions := structure.Functions(cfg.Remote.Name)
	infos := make([]ui.FunctionInfo, len(functions))
	for i, fn := range functions {
		infos[i] = ui.FunctionInfo{
			Name:     fn.Name,
			UUID:     fn.UUID,
			Type:     fn.Type,
			Room:     fn.Room,
			Category: fn.Category,
		}
	}

	if !*pick {
		ui.PrintFunctionList(infos)
		return
	}

	selected, err := ui.SelectFunction(infos)
	if err != nil {
		ui.PrintFatalError("Function selection failed", err.Error())
		os.Exit(1)
	}
	if selected == nil {
		fmt.Println(ui.Muted("No function selected"))
		return
	}
	ui.PrintMappingSnippet(*selected)
}

// runCheck handles the check subcommand
func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, client := loadClient(*configPath)

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Miniserver.TimeoutMs)*time.Millisecond)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		ui.PrintFatalError("Miniserver unreachable", err.Error())
		os.Exit(1)
	}

	fmt.Println(ui.Success("Miniserver reachable at " + cfg.Miniserver.BaseURL))
}

// runInit handles the init subcommand
func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if config.Exists(*configPath) {
		ui.PrintFatalError("Config file already exists", *configPath)
		os.Exit(1)
	}

	if err := config.CreateDefaultConfig(*configPath); err != nil {
		ui.PrintFatalError("Failed to create config", err.Error())
		os.Exit(1)
	}

	fmt.Println(ui.Success("Created " + *configPath))
	fmt.Println(ui.Muted("Edit the miniserver credentials and mappings, then run " + ui.Code("loxremote")))
}

func loadClient(configPath string) (*config.Config, *loxone.Client) {
	cfg, err := config.Load(configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	client, err := loxone.NewClient(
		cfg.Miniserver.BaseURL,
		cfg.Miniserver.Username,
		cfg.Miniserver.Password,
		time.Duration(cfg.Miniserver.TimeoutMs)*time.Millisecond,
	)
	if err != nil {
		ui.PrintFatalError("Failed to create miniserver client", err.Error())
		os.Exit(1)
	}

	return cfg, client
}
