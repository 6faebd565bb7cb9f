package db

import (
	"context"
	"sync"

	"github.com/mithrel/freightdesk/internal/notify"
)

type memJournal struct {
	mu    sync.Mutex
	items []notify.Notification
	base  int64 // sequence of items[0] minus one
}

func newMemJournal() *memJournal { return &memJournal{} }

func (m *memJournal) Append(_ context.Context, n notify.Notification) error {
	m.mu.Lock()
	m.items = append(m.items, n)
	m.mu.Unlock()
	return nil
}

func (m *memJournal) List(_ context.Context, cur Cursor, limit int) ([]notify.Notification, Cursor, error) {
	if limit <= 0 {
		limit = 100
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	start := cur.After - m.base
	if start < 0 {
		start = 0
	}
	if start >= int64(len(m.items)) {
		return nil, cur, nil
	}
	end := start + int64(limit)
	if end > int64(len(m.items)) {
		end = int64(len(m.items))
	}
	out := append([]notify.Notification(nil), m.items[start:end]...)
	return out, Cursor{After: m.base + end}, nil
}

func (m *memJournal) Clear(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.items))
	m.base += n
	m.items = nil
	return n, nil
}

func (m *memJournal) Close() error { return nil }
