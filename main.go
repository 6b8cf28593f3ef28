package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lost-woods/qrandom/src/backend"
	"github.com/lost-woods/qrandom/src/config"
	"github.com/lost-woods/qrandom/src/entropy"
	"github.com/lost-woods/qrandom/src/rng"
	"github.com/lost-woods/qrandom/src/server"
)

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	log := zapLogger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error(err)
		zapLogger.Sync()
		os.Exit(1)
	}
	zapLogger.Sync()
}

func run(ctx context.Context, log *zap.SugaredLogger) (err error) {
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		return err
	}

	stream, err := entropy.Open(ctx, cfg.Entropy)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, stream.Close()) }()
	log.Infow("entropy source ready", "source", cfg.Entropy.Kind)

	sim, err := backend.NewSimulator(stream)
	if err != nil {
		return err
	}

	src := rng.NewBitSource(sim)
	health := rng.NewHealth()
	if err := rng.HealthCheck(ctx, src, health); err != nil {
		// Serve anyway; requests are refused until the periodic check passes.
		health.Set(false, err.Error())
		log.Warnw("initial health check failed", "error", err)
	} else {
		health.Set(true, "")
	}

	sampler := rng.NewSampler(src, rng.WithMaxAttempts(cfg.SampleMaxAttempts))
	return server.New(cfg, sampler, src, health, log).Run(ctx)
}
