package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // zone names on hosts without zoneinfo

	"github.com/polyrabbit/gold-alert/config"
	"github.com/polyrabbit/gold-alert/http"
	"github.com/polyrabbit/gold-alert/model"
	"github.com/polyrabbit/gold-alert/notify"
	"github.com/polyrabbit/gold-alert/source"
	"github.com/polyrabbit/gold-alert/store"
	"github.com/polyrabbit/gold-alert/watcher"
	"github.com/polyrabbit/gold-alert/writer"
	"github.com/sirupsen/logrus"
)

const (
	exitOK = iota
	exitConfig
	exitNetwork
	exitParse
	exitStore
	exitNotify
)

func exitCode(err error) int {
	switch model.KindOf(err) {
	case model.KindNetwork:
		return exitNetwork
	case model.KindParse:
		return exitParse
	case model.KindStore:
		return exitStore
	case model.KindNotify:
		return exitNotify
	}
	return exitConfig
}

func run(ctx context.Context, cfg *config.Config) int {
	httpClient := http.New(cfg)

	src := source.NewRegistry(cfg, httpClient).Get(cfg.Source)
	if src == nil {
		logrus.Errorf("Unknown source %s, try --list-sources", cfg.Source)
		return exitConfig
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logrus.WithError(err).Errorf("Unknown time zone %q", cfg.Timezone)
		return exitConfig
	}

	snapshots, err := store.New(&cfg.Store, httpClient)
	if err != nil {
		logrus.WithError(err).Error("Failed to set up snapshot store")
		return exitConfig
	}
	if closer, ok := snapshots.(io.Closer); ok {
		defer closer.Close()
	}
	logrus.Debugf("Using snapshot store %s", snapshots.Name())

	w := &watcher.Watcher{
		Source:   src,
		Store:    snapshots,
		Location: location,
	}
	if cfg.DryRun {
		w.Printer = writer.NewTableWriter(nil)
	} else {
		w.Notifier = notify.NewTelegram(&cfg.Telegram, httpClient)
	}

	start := time.Now()
	outcome, err := w.Run(ctx)
	logEntry := logrus.WithField("elapsed", time.Since(start).Round(time.Millisecond).String())
	if err != nil {
		logEntry.WithError(err).WithField("kind", model.KindOf(err).String()).Error("Run failed")
		return exitCode(err)
	}
	logEntry.WithField("outcome", outcome.String()).Info("Run finished")
	return exitOK
}

func main() {
	cfg := config.Parse(source.Names)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg)
	stop()
	os.Exit(code)
}
