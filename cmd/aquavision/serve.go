package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/aquavision/internal/api"
	"github.com/ironsheep/aquavision/internal/config"
	"github.com/ironsheep/aquavision/internal/enhance"
	"github.com/ironsheep/aquavision/internal/imaging"
)

// shutdownGrace bounds how long in-flight requests may run after a signal.
const shutdownGrace = 10 * time.Second

// serve runs the HTTP API and the health endpoint until SIGINT or SIGTERM.
func serve(cfg config.Config, engine *enhance.Engine) error {
	cache, err := imaging.NewResultCache(cfg.ResultCacheSize)
	if err != nil {
		return err
	}

	var shuttingDown atomic.Bool

	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(10000))
	health.AddReadinessCheck("shutdown", func() error {
		if shuttingDown.Load() {
			return fmt.Errorf("shutting down")
		}
		return nil
	})
	go func() {
		/* #nosec G114 */
		if err := http.ListenAndServe(cfg.HealthAddr, health); err != nil {
			zap.S().Errorf("Error starting healthcheck: %s", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.New(cfg, engine, cache).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		zap.S().Infof("Listening on %s", cfg.HTTPAddr)
		errs <- srv.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		return errors.Wrap(err, "http server")
	case sig := <-sigs:
		zap.S().Infof("Received %s, shutting down", sig)
	}

	shuttingDown.Store(true)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "graceful shutdown")
	}
	zap.S().Infof("Successful shutdown")
	return nil
}
