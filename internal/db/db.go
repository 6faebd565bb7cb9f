// Package db persists the notification journal so one CLI invocation can
// show what earlier ones raised.
package db

import (
	"context"
	"errors"
	"strings"

	"github.com/mithrel/freightdesk/internal/notify"
)

// Cursor pages through the journal; After is the last seen sequence number.
type Cursor struct {
	After int64 `json:"after"`
}

// Journal is the notification history store.
type Journal interface {
	Append(ctx context.Context, n notify.Notification) error
	List(ctx context.Context, cur Cursor, limit int) ([]notify.Notification, Cursor, error)
	Clear(ctx context.Context) (int64, error)
	Close() error
}

var ErrUnsupportedDSN = errors.New("unsupported journal dsn")

// Open returns a Journal for dsn: "sqlite://<path>" or "mem://".
func Open(ctx context.Context, dsn string) (Journal, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		j, err := openSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return j, nil
	case dsn == "mem://" || dsn == "":
		return newMemJournal(), nil
	default:
		return nil, ErrUnsupportedDSN
	}
}

// Sink adapts a Journal to notify.Sink.
type Sink struct {
	J Journal
}

func (s Sink) Record(n notify.Notification) error {
	return s.J.Append(context.Background(), n)
}
