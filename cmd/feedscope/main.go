package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/feedscope/pkg/bluesky"
	"github.com/umputun/feedscope/pkg/config"
	"github.com/umputun/feedscope/pkg/curation"
	"github.com/umputun/feedscope/pkg/feed"
	"github.com/umputun/feedscope/pkg/llm"
	"github.com/umputun/feedscope/pkg/prefs"
	"github.com/umputun/feedscope/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"config file"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		cancel()
		os.Exit(1)
	}
	cancel()

	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	setupLog(opts.Debug, cfg.LLM.APIKey)
	log.Printf("[INFO] starting feedscope version %s", revision)

	listen, timeout := cfg.GetServerConfig()
	if opts.Listen != "" {
		listen = opts.Listen
	}

	prefStore, err := prefs.New(prefs.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open preferences store: %w", err)
	}
	defer func() {
		if err := prefStore.Close(); err != nil {
			log.Printf("[WARN] failed to close preferences store: %v", err)
		}
	}()

	srcCfg := cfg.GetSourceConfig()
	source := bluesky.NewClient(bluesky.Config{
		BaseURL:   srcCfg.Endpoint,
		SearchURL: srcCfg.SearchEndpoint,
		UserAgent: srcCfg.UserAgent,
		Timeout:   srcCfg.Timeout,
	})

	feedCfg := cfg.GetFeedConfig()
	advisor := llm.NewAdvisor(cfg.GetLLMConfig())
	engine := curation.NewEngine(advisor, source, feedCfg.FetchExtension)
	sessions := curation.NewStore(0) // default session ttl

	feeder := feed.NewService(source, prefStore, engine, feed.Config{
		PageSize:        feedCfg.PageSize,
		MaxEmptyPages:   feedCfg.MaxEmptyPages,
		SystemLanguages: feedCfg.SystemLanguages,
	})

	srv := server.New(feeder, prefStore, sessions, server.Config{
		Listen:  listen,
		Timeout: timeout,
		Version: revision,
		Debug:   opts.Debug,
	})

	return srv.Run(ctx)
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	secrets := make([]string, 0, len(secs))
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
