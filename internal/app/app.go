package app

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/StaryMuz/elektrina-monitor/internal/chart"
	"github.com/StaryMuz/elektrina-monitor/internal/collector"
	"github.com/StaryMuz/elektrina-monitor/internal/config"
	"github.com/StaryMuz/elektrina-monitor/internal/notifier"
	"github.com/StaryMuz/elektrina-monitor/internal/pipeline"
	"github.com/StaryMuz/elektrina-monitor/internal/recorder"
)

// App holds the wired components built from a Config.
type App struct {
	Config   *config.Config
	Pipeline *pipeline.Pipeline
	Recorder recorder.Recorder
	Location *time.Location
	// Telegram is nil when no bot credentials are configured.
	Telegram *notifier.TelegramNotifier
}

// Build wires fetcher, collector, renderer, notifiers, recorder and pipeline.
func Build(cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.File != "" {
		fetcher = collector.NewFileFetcher(cfg.DataSource.File)
	} else {
		fetcher = collector.NewOTEFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	log.Infof("data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher)

	renderer := chart.NewGoChartsRenderer(cfg.Chart.Path, cfg.Chart.Width, cfg.Chart.Height, cfg.Chart.Theme)

	// Init notifiers
	a := &App{Config: cfg, Location: loc}
	var notifiers notifier.Multi
	if cfg.TelegramEnabled() {
		a.Telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		notifiers = append(notifiers, a.Telegram)
	}
	if cfg.Webhook.URL != "" {
		notifiers = append(notifiers, notifier.NewWebhookNotifier(cfg.Webhook.URL, cfg.Webhook.Secret))
	}
	var n notifier.Notifier = notifiers
	switch len(notifiers) {
	case 0:
		log.Warn("no delivery channel configured, reports go to the log")
		n = notifier.NewLogNotifier()
	case 1:
		n = notifiers[0]
	}

	// Init recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
			a.Recorder = recorder.NewNoopRecorder()
		} else {
			a.Recorder = sr
		}
	} else {
		a.Recorder = recorder.NewNoopRecorder()
	}

	a.Pipeline = pipeline.New(col, renderer, n, a.Recorder, cfg.Threshold.LimitEUR)
	return a, nil
}

// Close releases the recorder.
func (a *App) Close() error {
	return a.Recorder.Close()
}
