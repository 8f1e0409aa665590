package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/cradoe/memberreg/internal/app"
	seeders "github.com/cradoe/memberreg/internal/seeder"
	"github.com/cradoe/memberreg/internal/version"
	"github.com/cradoe/memberreg/internal/worker"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	showVersion := flag.Bool("version", false, "display version and exit")
	seed := flag.Bool("seed", false, "create the default admin and sample members, then exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	application, err := app.NewApplication(logger)
	if err != nil {
		return err
	}
	defer application.Close()

	if *seed {
		cfg := application.Config.Admin
		return seeders.New(application.DB, logger).Run(cfg.Name, cfg.Email, cfg.Password)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	wk := worker.New(&worker.Worker{
		KafkaStream:  application.Kafka,
		ActivityRepo: application.DB.Activity(),
		Mailer:       application.Mailer,
		Ctx:          ctx,
		Helper:       application.Helper,
		Logger:       logger,
	})

	g.Go(wk.RegistrationWorker)
	g.Go(wk.ActivityWorker)
	g.Go(func() error {
		return application.ServeHTTP(ctx)
	})

	return g.Wait()
}
