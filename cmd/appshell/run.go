package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/appshell/internal/applog"
	"github.com/1broseidon/appshell/internal/config"
	"github.com/1broseidon/appshell/internal/content"
	"github.com/1broseidon/appshell/internal/eventloop"
	"github.com/1broseidon/appshell/internal/fatal"
	"github.com/1broseidon/appshell/internal/ipc"
	"github.com/1broseidon/appshell/internal/lifecycle"
	"github.com/1broseidon/appshell/internal/metrics"
	"github.com/1broseidon/appshell/internal/platform"
	"github.com/1broseidon/appshell/internal/runtimepath"
	"github.com/1broseidon/appshell/internal/service"
	"github.com/1broseidon/appshell/internal/settings"
	"github.com/1broseidon/appshell/internal/version"
)

const windowClass = "appshell"

// shellQuitter stops the X connection and the scheduler.
type shellQuitter struct {
	loop *eventloop.Loop
	sys  *platform.X11System
}

func (q *shellQuitter) Quit() {
	if q.sys != nil {
		q.sys.Quit()
	}
	q.loop.Stop()
}

func runApp(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: appshell run [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the application. If an instance is already running, activate it instead.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/appshell/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	client := ipc.NewClient()
	if client.Ping() == nil {
		if err := client.Activate(); err != nil {
			log.Printf("appshell is already running but did not accept activate: %v", err)
			return 1
		}
		log.Println("appshell is already running; activated the existing instance")
		return 0
	}

	logCfg := cfg.GetLoggingConfig()
	fileLogger, err := applog.NewFileLogger(applog.FileConfig{
		FilePath:  logCfg.File,
		MaxSizeMB: logCfg.MaxSizeMB,
		MaxFiles:  logCfg.MaxFiles,
	})
	if err != nil {
		log.Printf("Warning: file logging disabled: %v", err)
		fileLogger = nil
	}
	defer fileLogger.Close()

	logger := applog.New(logCfg.Level, fileLogger)
	slog.SetDefault(logger)

	if err := fatal.Install(fileLogger, openCrashFile()); err != nil {
		logger.Warn("crash output not redirected", "err", err)
	}
	defer fatal.Guard()

	platformName := cfg.GetPlatform()
	logger.Info("starting appshell",
		"version", version.Version,
		"platform", platformName,
		"product", cfg.ProductName,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	loop := eventloop.New(logger)
	app := service.NewApp(loop, cfg.ProductName, version.Version, platformName)

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		logger.Warn("IPC socket path unavailable", "err", err)
	}
	svc := service.Startup(ctx, service.Deps{
		Config:     cfg.Service,
		App:        app,
		Metrics:    m,
		SocketPath: socketPath,
		Logger:     logger,
	})
	defer svc.Stop()

	settingsPath := cfg.SettingsFile
	if settingsPath == "" {
		if settingsPath, err = settings.DefaultPath(); err != nil {
			fatal.Report(fatal.Tag, err)
			return 1
		}
	}
	storage := settings.NewAsyncStorage(&settings.FileStorage{Path: settingsPath}, logger, m)
	defer storage.Close()
	if err := settings.Init(storage, settings.WithLogger(logger), settings.WithMetrics(m)); err != nil {
		fatal.Report(fatal.Tag, fmt.Errorf("failed to initialize settings: %w", err))
		return 1
	}

	sys, err := platform.NewX11System(cfg.Display, windowClass, loop, logger)
	if err != nil {
		fatal.Report(fatal.Tag, err)
		return 1
	}
	quitter := &shellQuitter{loop: loop, sys: sys}
	defer sys.Quit()

	loader := content.NewLoader(loop, cfg.GetContentDir(), cfg.Content.Splash, cfg.Content.Main, logger)
	coordinator := lifecycle.NewCoordinator(lifecycle.Config{
		ProductName: cfg.ProductName,
		Version:     version.Version,
		Platform:    platformName,
	}, lifecycle.Deps{
		Scheduler: loop,
		Windows:   sys,
		Store:     settings.Process(),
		Content:   loader,
		Quitter:   quitter,
		Logger:    logger,
		Metrics:   m,
	})
	coordinator.Start()
	app.Attach(settings.Process(), coordinator)

	go func() {
		defer fatal.Guard()
		sys.EventLoop()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("shutting down", "signal", sig.String())
			loop.Post(quitter.Quit)
		case <-loop.Done():
		}
	}()

	loop.Emit(platform.AppSource, platform.EventReady)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatal.Report(fatal.Tag, err)
		return 1
	}
	logger.Info("appshell stopped")
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// openCrashFile returns the runtime crash output file, or nil if it cannot
// be opened.
func openCrashFile() *os.File {
	path, err := runtimepath.CrashLogPath()
	if err != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}
	return f
}
