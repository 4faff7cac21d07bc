// SPDX-License-Identifier: MIT

// Command retrogate serves the legacy widget protocols: weather, video
// portal and stocks, bridged onto present-day upstream APIs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"retrogate/internal/api"
	"retrogate/internal/config"
	"retrogate/internal/feeds"
	"retrogate/internal/fetch"
	"retrogate/internal/geo"
	"retrogate/internal/innertube"
	"retrogate/internal/log"
	"retrogate/internal/meteo"
	"retrogate/internal/stocks"
	"retrogate/internal/version"
	"retrogate/internal/vod"
	"retrogate/internal/weather"
	"retrogate/internal/ytapi"
)

const (
	shutdownGrace     = 10 * time.Second
	downloadTimeout   = 15 * time.Minute
	thumbnailTimeout  = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("retrogate %s (%s, %s)\n", version.Version, version.Commit, version.Date)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Configure(log.Config{Service: "retrogate"})
		lg := log.Base()
		lg.Fatal().Err(err).Msg("load configuration")
	}
	log.Configure(log.Config{Level: cfg.LogLevel, Service: "retrogate"})
	logger := log.WithComponent("main")
	logger.Info().
		Str("version", version.Version).
		Bool("weather", cfg.Weather.Enabled).
		Bool("video", cfg.Video.Enabled).
		Bool("stocks", cfg.Stocks.Enabled).
		Msg("starting gateway")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One shared client for the JSON upstreams; media downloads get their
	// own with a much longer per-attempt timeout.
	apiClient := fetch.New(fetch.Options{})

	deps := api.Deps{}
	if cfg.Weather.Enabled {
		deps.Weather = weather.NewHandler(geo.New("", apiClient), meteo.New("", apiClient))
	}
	if cfg.Stocks.Enabled {
		deps.Stocks = stocks.NewHandler(stocks.New("", apiClient))
	}
	if cfg.Video.Enabled {
		if cfg.Video.APIKey == "" {
			logger.Fatal().Msg("video.apiKey is required when the video domain is enabled")
		}
		store, err := vod.NewStore(cfg.VideosDir(), cfg.ThumbnailsDir())
		if err != nil {
			logger.Fatal().Err(err).Str("data_dir", cfg.DataDir).Msg("create media cache")
		}

		download := fetch.New(fetch.Options{Attempts: 2, Timeout: downloadTimeout, Backoff: 2 * time.Second})
		coordinator := vod.NewCoordinator(store, innertube.New("", apiClient), download)

		lifetime := time.Duration(cfg.Video.LifetimeDays) * 24 * time.Hour
		thumbs := vod.NewThumbnailer(store, fetch.New(fetch.Options{Timeout: thumbnailTimeout}), lifetime)

		yt := ytapi.New("", cfg.Video.APIKey, apiClient)
		enricher := feeds.NewEnricher(thumbs, cfg.BaseURL())
		deps.Feeds = feeds.NewHandler(yt, enricher, feeds.NewRegistry(), coordinator, store, cfg.Video.DeviceKey)

		sweeper := vod.NewSweeper(store, lifetime, time.Duration(cfg.Video.SweepIntervalHours)*time.Hour)
		sweeper.Sweep()
		go sweeper.Run(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info().Str("addr", cfg.Addr()).Str("base_url", cfg.BaseURL()).Msg("listening")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("http server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server error")
	}
	logger.Info().Msg("stopped")
}
