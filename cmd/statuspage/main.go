package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/hamed0406/statuspage/internal/config"
	"github.com/hamed0406/statuspage/internal/feed"
	"github.com/hamed0406/statuspage/internal/httpapi"
	apimw "github.com/hamed0406/statuspage/internal/httpapi/middleware"
	"github.com/hamed0406/statuspage/internal/logging"
	"github.com/hamed0406/statuspage/internal/notify"
	"github.com/hamed0406/statuspage/internal/render"
	"github.com/hamed0406/statuspage/internal/scheduler"
	"github.com/hamed0406/statuspage/internal/statuspage"
	"github.com/hamed0406/statuspage/internal/timeline"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	httpAddr := pflag.String("http", "", "listen address, overrides addr from config")
	days := pflag.Int("days", 0, "history window in days, overrides timeframe")
	pflag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	cfg = cfg.WithDays(*days)
	if *httpAddr != "" {
		cfg.Addr = *httpAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	src, err := feed.NewClient(cfg.APIBase, cfg.HTTPTimeout)
	if err != nil {
		logger.Fatal("feed_client", zap.Error(err))
	}

	tl := render.NewTimeline(render.StatusText(cfg.StatusText), cfg.Timeframe)
	hub := httpapi.NewHub(logger, tl)
	defer hub.Close()

	seed := timeline.SeedAbsent
	if cfg.SeedHealthy {
		seed = timeline.SeedHealthy
	}
	page := statuspage.New(logger, src, render.Multi{tl, hub}, statuspage.Options{
		Timeframe:  cfg.Timeframe,
		SeedPolicy: seed,
		Dedup:      cfg.DedupResults,
	})

	notifiers := notify.Multi{notify.Log{Logger: logger}}
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		notifiers = append(notifiers, s)
	}
	alerter := scheduler.NewAlerter(logger, notifiers, "")
	poller := scheduler.NewPoller(logger, page, alerter, cfg.PollInterval(), cfg.RefreshDisplay)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	api := httpapi.NewServer(logger, tl, hub, poller)
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(keys, cfg.PublicRPM, cfg.PublicBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api_listen",
			zap.String("addr", cfg.Addr),
			zap.String("api_base", cfg.APIBase),
			zap.Duration("timeframe", cfg.Timeframe),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_listen_failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api_shutdown", zap.Error(err))
	}
	<-done
}
