// Package notify holds the process-wide notification log that the API layer
// pushes user-visible messages into.
package notify

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
)

// Notification is a transient user-facing message (a toast in the web UI).
type Notification struct {
	ID      string    `json:"id"`
	Type    Type      `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier is what the API layer needs from the log.
type Notifier interface {
	Push(n Notification) Notification
}

// Sink receives every pushed notification, e.g. for persistence.
type Sink interface {
	Record(n Notification) error
}

var ErrNotFound = errors.New("notification not found")

// subscriber buffer; a full buffer drops the message for that subscriber.
const subBuffer = 64

// Log is an append-only list of notifications with fan-out to subscribers.
// Entries leave the list only through Dismiss.
type Log struct {
	mu    sync.Mutex
	items []Notification
	subs  map[chan Notification]struct{}
	sink  Sink
	now   func() time.Time

	// OnSinkError is called when the sink rejects a notification.
	OnSinkError func(error)
}

func NewLog() *Log {
	return &Log{
		subs: make(map[chan Notification]struct{}),
		now:  time.Now,
	}
}

// WithSink attaches a sink and returns the log.
func (l *Log) WithSink(s Sink) *Log {
	l.mu.Lock()
	l.sink = s
	l.mu.Unlock()
	return l
}

// Push appends n, filling ID and Time when empty, and publishes it.
func (l *Log) Push(n Notification) Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	l.mu.Lock()
	if n.Time.IsZero() {
		n.Time = l.now().UTC()
	}
	l.items = append(l.items, n)
	for ch := range l.subs {
		select {
		case ch <- n:
		default:
		}
	}
	sink := l.sink
	onErr := l.OnSinkError
	l.mu.Unlock()

	if sink != nil {
		if err := sink.Record(n); err != nil && onErr != nil {
			onErr(err)
		}
	}
	return n
}

// Success and Error are shorthands matching the UI's addNotification calls.
func (l *Log) Success(title, message string) Notification {
	return l.Push(Notification{Type: TypeSuccess, Title: title, Message: message})
}

func (l *Log) Error(title, message string) Notification {
	return l.Push(Notification{Type: TypeError, Title: title, Message: message})
}

// List returns a copy in insertion order.
func (l *Log) List() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *Log) Dismiss(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, n := range l.items {
		if n.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Subscribe returns a channel receiving every notification pushed after the
// call. cancel unsubscribes and closes the channel; it is safe to call twice.
func (l *Log) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, subBuffer)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, ch)
			l.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
