package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recSink struct {
	mu  sync.Mutex
	got []Notification
	err error
}

func (s *recSink) Record(n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	return s.err
}

func TestPushKeepsInsertionOrder(t *testing.T) {
	l := NewLog()
	a := l.Error("Error", "first")
	b := l.Success("Success", "second")

	got := l.List()
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)
	assert.Equal(t, TypeError, got[0].Type)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Time.IsZero())
}

func TestPushDoesNotDeduplicate(t *testing.T) {
	l := NewLog()
	l.Error("Error", "same")
	l.Error("Error", "same")
	assert.Equal(t, 2, l.Len())
}

func TestDismiss(t *testing.T) {
	l := NewLog()
	a := l.Error("Error", "a")
	b := l.Error("Error", "b")

	require.NoError(t, l.Dismiss(a.ID))
	got := l.List()
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
	assert.ErrorIs(t, l.Dismiss(a.ID), ErrNotFound)
}

func TestSubscribeReceivesLaterPushes(t *testing.T) {
	l := NewLog()
	l.Error("Error", "before")

	ch, cancel := l.Subscribe()
	n := l.Error("Error", "after")

	got := <-ch
	assert.Equal(t, n.ID, got.ID)
	assert.Equal(t, "after", got.Message)

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)

	// no panic pushing after unsubscribe
	l.Error("Error", "late")
}

func TestSlowSubscriberDrops(t *testing.T) {
	l := NewLog()
	ch, cancel := l.Subscribe()
	defer cancel()
	for i := 0; i < subBuffer+10; i++ {
		l.Error("Error", "x")
	}
	assert.Len(t, ch, subBuffer)
	assert.Equal(t, subBuffer+10, l.Len())
}

func TestSinkReceivesAndReportsErrors(t *testing.T) {
	sink := &recSink{err: errors.New("disk full")}
	var sinkErr error
	l := NewLog().WithSink(sink)
	l.OnSinkError = func(err error) { sinkErr = err }

	l.Error("Error", "boom")
	require.Len(t, sink.got, 1)
	assert.Equal(t, "boom", sink.got[0].Message)
	assert.EqualError(t, sinkErr, "disk full")
	assert.Equal(t, 1, l.Len())
}

func TestConcurrentPush(t *testing.T) {
	l := NewLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Error("Error", "parallel")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, l.Len())
}
