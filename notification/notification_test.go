package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}

type fakeClock struct {
	now    time.Time
	timers []*fakeTimer
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func TestRegistryDeduplicatesByKey(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(WithTimers(clock.Now, clock.AfterFunc))

	r.AddPopup(PopupContent{Type: PopupTypeTransaction, Hash: "0x1", ChainID: 1}, "0x1", 10*time.Second)
	clock.now = clock.now.Add(time.Second)
	r.AddPopup(PopupContent{Type: PopupTypeTransaction, Hash: "0x1", ChainID: 1}, "0x1", 10*time.Second)
	r.AddPopup(PopupContent{Type: PopupTypeOrder, OrderHash: "0xaaa", ChainID: 10}, "0xaaa", 5*time.Second)

	popups := r.Popups()
	require.Len(t, popups, 2)
	assert.Equal(t, "0x1", popups[0].Key)
	assert.Equal(t, clock.now.Add(10*time.Second), popups[0].DismissAt)

	require.Len(t, clock.timers, 3)
	assert.True(t, clock.timers[0].stopped)
	assert.Equal(t, 5*time.Second, clock.timers[2].d)

	// the stale timer of the replaced popup must not remove the new one
	clock.timers[0].f()
	assert.Len(t, r.Popups(), 2)

	clock.timers[1].f()
	popups = r.Popups()
	require.Len(t, popups, 1)
	assert.Equal(t, "0xaaa", popups[0].Key)

	r.RemovePopup("0xaaa")
	assert.Empty(t, r.Popups())
	assert.True(t, clock.timers[2].stopped)
}

func TestRegistryRealTimers(t *testing.T) {
	r := NewRegistry()
	r.AddPopup(PopupContent{Type: PopupTypeTransaction, Hash: "0x1"}, "0x1", 10*time.Millisecond)
	r.AddPopup(PopupContent{Type: PopupTypeTransaction, Hash: "0x2"}, "0x2", 0)
	assert.Eventually(t, func() bool { return len(r.Popups()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "0x2", r.Popups()[0].Key)
}

func TestNotifier(t *testing.T) {
	n := NewNotifier(Config{Locale: "es", MaxNotifications: 2})
	first := n.PushError(KeyCancelError, 1, "0xabc")
	assert.Equal(t, "No se pudo cancelar la transacción", first.Message)
	assert.NotEmpty(t, first.ID)

	n.PushError(KeyReplaceError, 1, "0xdef")
	n.PushError("unknown.key", 1, "0x123")
	list := n.Notifications()
	require.Len(t, list, 2)
	assert.Equal(t, KeyReplaceError, list[0].Key)
	assert.Equal(t, "unknown.key", list[1].Message)

	n.Dismiss(list[0].ID)
	assert.Len(t, n.Notifications(), 1)

	en := NewNotifier(Config{Locale: "de"})
	assert.Equal(t, "Unable to replace transaction", en.Translate(KeyReplaceError))
}
