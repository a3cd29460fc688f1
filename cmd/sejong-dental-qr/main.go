package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sejong-dental-qr/internal/config"
	"sejong-dental-qr/internal/logger"
	"sejong-dental-qr/internal/service"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags]

Commands:
  build    Reconcile the roster and generate pages, QR assets and reports
  preview  Serve the generated site locally

Run '%s <command> -h' for command flags.
`, os.Args[0], os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "build":
		os.Exit(runBuild(os.Args[2:]))
	case "preview":
		os.Exit(runPreview(os.Args[2:]))
	default:
		usage()
		os.Exit(2)
	}
}

func runBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to the build config file")
	skipQR := fs.Bool("skip-qr", false, "skip QR, delivery and outbox generation")
	fs.Parse(args)

	cfg, err := config.Load(*configPath, *skipQR)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	builder, err := service.NewBuildService(cfg, log)
	if err != nil {
		log.Error("Failed to initialize build", zap.Error(err))
		return 1
	}
	if err := builder.Run(service.BuildOptions{SkipQR: *skipQR}); err != nil {
		log.Error("Build failed", zap.Error(err))
		return 1
	}
	return 0
}

func runPreview(args []string) int {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	port := fs.Int("port", 8000, "port to bind")
	siteRoot := fs.String("site-root", "docs", "generated site directory")
	fs.Parse(args)

	log, err := logger.New("info", "console")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	srv := service.NewPreviewServer(fmt.Sprintf(":%d", *port), *siteRoot, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Preview server failed", zap.Error(err))
			return 1
		}
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			log.Warn("Preview shutdown error", zap.Error(err))
		}
	}
	return 0
}
