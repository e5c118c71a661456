package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/kit/metrics/provider"
	"github.com/netkea/pnpcommon/dispatch"
	"github.com/netkea/pnpcommon/logging"
	"github.com/netkea/pnpcommon/pnphttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownGracePeriod = 10 * time.Second

func main() {
	if err := pnpd(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func pnpd(arguments []string) error {
	config, err := loadConfig(arguments)
	if err != nil {
		return err
	}

	logger := logging.New(&config.Log)

	registry, err := newRegistry(logger, config.Backoff)
	if err != nil {
		return fmt.Errorf("invalid backoff configuration: %s", err)
	}

	measures := dispatch.NewMeasures(provider.NewPrometheusProvider(applicationName, "dispatch"))
	dispatcher := dispatch.NewDispatcher(dispatch.DispatcherOptions{
		Logger:   logger,
		Registry: registry,
		Measures: &measures,
	})

	serverOptions := pnphttp.ServerOptions{
		Logger:          logger,
		Address:         config.Server.Address,
		ReadTimeout:     config.Server.ReadTimeout,
		WriteTimeout:    config.Server.WriteTimeout,
		IdleTimeout:     config.Server.IdleTimeout,
		CertificateFile: config.Server.CertificateFile,
		KeyFile:         config.Server.KeyFile,
	}

	server := pnphttp.NewServer(serverOptions, pnphttp.NewRouter(pnphttp.RouterOptions{
		Logger:         logger,
		Dispatcher:     dispatcher,
		MaxRequestBody: config.Server.MaxRequestBody,
	}))

	errs := make(chan error, 2)
	go func() {
		errs <- pnphttp.NewStarter(serverOptions, server)()
	}()

	var metricsServer *http.Server
	if len(config.Metrics.Address) > 0 {
		metricsOptions := pnphttp.ServerOptions{
			Logger:  logger,
			Address: config.Metrics.Address,
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		metricsServer = pnphttp.NewServer(metricsOptions, mux)
		go func() {
			errs <- pnphttp.NewStarter(metricsOptions, metricsServer)()
		}()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-signals:
		logging.Info(logger).Log(logging.MessageKey(), "shutting down", "signal", s.String())
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	if metricsServer != nil {
		_ = metricsServer.Shutdown(ctx)
	}

	return server.Shutdown(ctx)
}
