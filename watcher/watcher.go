package watcher

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/polyrabbit/gold-alert/format"
	"github.com/polyrabbit/gold-alert/model"
	"github.com/sirupsen/logrus"
)

type Source interface {
	GetName() string
	PageURL() string
	GetPriceTable(ctx context.Context) (*model.PriceTable, error)
}

type Store interface {
	Name() string
	Load(ctx context.Context) (*model.PriceTable, error)
	Save(ctx context.Context, table *model.PriceTable) error
}

type Notifier interface {
	Notify(ctx context.Context, message string, table *model.PriceTable, at time.Time) error
}

// Printer shows a changed table instead of notifying, used by dry runs.
type Printer interface {
	Print(current, previous *model.PriceTable, message string)
}

type Outcome int

const (
	// Failed is returned with an error when nothing was sent
	Failed Outcome = iota
	Unchanged
	Notified
	Printed
)

func (o Outcome) String() string {
	switch o {
	case Failed:
		return "failed"
	case Unchanged:
		return "unchanged"
	case Notified:
		return "notified"
	case Printed:
		return "printed"
	}
	return "unknown"
}

type Watcher struct {
	Source   Source
	Store    Store
	Notifier Notifier
	// When set, changes are printed and nothing is sent or saved
	Printer  Printer
	Location *time.Location
	Now      func() time.Time
}

func (w *Watcher) now() time.Time {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	if w.Location != nil {
		return now().In(w.Location)
	}
	return now()
}

// Run does one fetch, diff and notify pass. Nothing is sent or saved when the
// page cannot be fetched or parsed, or when the previous snapshot cannot be read.
// The snapshot is saved after a successful notification only, so a failed save
// may repeat the alert on the next run but a change is never lost.
func (w *Watcher) Run(ctx context.Context) (Outcome, error) {
	logEntry := logrus.WithField("source", w.Source.GetName())

	table, err := w.Source.GetPriceTable(ctx)
	if err != nil {
		return Failed, err
	}
	logEntry = logEntry.WithField("rows", table.Len())
	logEntry.Debug("Fetched price table")

	previous, err := w.Store.Load(ctx)
	if err != nil {
		return Failed, errors.Wrapf(err, "load snapshot from %s", w.Store.Name())
	}
	if previous == nil {
		logEntry.Infof("No snapshot in %s yet, treating as changed", w.Store.Name())
	}

	if table.Equal(previous) {
		logEntry.Info("Prices unchanged, nothing to send")
		return Unchanged, nil
	}

	at := w.now()
	message := format.Message(table, at, w.Source.PageURL())

	if w.Printer != nil {
		w.Printer.Print(table, previous, message)
		return Printed, nil
	}

	if err := w.Notifier.Notify(ctx, message, table, at); err != nil {
		return Failed, err
	}
	logEntry.Info("Sent price change notification")

	if err := w.Store.Save(ctx, table); err != nil {
		return Notified, errors.Wrapf(err, "save snapshot to %s", w.Store.Name())
	}
	logEntry.Debugf("Saved snapshot to %s", w.Store.Name())
	return Notified, nil
}
