package bus

import (
	"testing"
	"time"
)

func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
	return Event{}
}

func quiet(t *testing.T, ch <-chan Event) {
	t.Helper()
	select {
	case evt, ok := <-ch:
		if ok {
			t.Errorf("unexpected event: %+v", evt)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "list.")
	defer unsub()

	b.Emit(ListLoaded, "clients")

	evt := recv(t, ch)
	if evt.Kind != ListLoaded || evt.Payload != "clients" {
		t.Errorf("got %+v", evt)
	}
}

func TestPrefixFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "mutation.", "session.")
	defer unsub()

	b.Emit(ListLoaded, nil)
	b.Emit(MutationApplied, nil)
	b.Emit(NotifyCount, nil)
	b.Emit(SessionChanged, nil)

	if got := recv(t, ch).Kind; got != MutationApplied {
		t.Errorf("first = %q, want %s", got, MutationApplied)
	}
	if got := recv(t, ch).Kind; got != SessionChanged {
		t.Errorf("second = %q, want %s", got, SessionChanged)
	}
	quiet(t, ch)
}

func TestSubscribeAll(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(4)
	defer unsub()

	b.Emit(ListFailed, nil)
	b.Emit(NotifyCount, nil)
	recv(t, ch)
	recv(t, ch)
}

func TestPublishStampsTime(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(2, "notify.")
	defer unsub()

	before := time.Now()
	b.Emit(NotifyCount, 3)
	if evt := recv(t, ch); evt.Timestamp.Before(before) {
		t.Errorf("timestamp %v is before emit time %v", evt.Timestamp, before)
	}

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b.Publish(Event{Kind: NotifyCount, Timestamp: fixed})
	if evt := recv(t, ch); !evt.Timestamp.Equal(fixed) {
		t.Errorf("timestamp = %v, want %v", evt.Timestamp, fixed)
	}
}

func TestNilBus(t *testing.T) {
	var b *Bus
	b.Emit(ListLoaded, nil)
	ch, unsub := b.Subscribe(1, "list.")
	unsub()
	if _, ok := <-ch; ok {
		t.Error("nil bus subscription should be closed")
	}
	if b.Dropped() != 0 {
		t.Error("nil bus reports drops")
	}
}

func TestUnsubscribeClosesOnce(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(10, "list.")
	unsub()
	unsub()

	b.Emit(ListStateChanged, nil)
	if _, ok := <-ch; ok {
		t.Error("channel still open after unsubscribe")
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe(1, "list.")
	defer unsub()

	b.Emit(ListLoaded, "one")
	b.Emit(ListLoaded, "two")

	if evt := recv(t, ch); evt.Payload != "one" {
		t.Errorf("got %v, want one", evt.Payload)
	}
	if b.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", b.Dropped())
	}
}
