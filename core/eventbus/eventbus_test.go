package eventbus

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"nucorrect-go/core/event"
)

type mockEvent struct {
	name string
}

func (e *mockEvent) EventName() string {
	return e.name
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("Timeout waiting for events")
	}
}

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)

	bus.Subscribe(func(e event.Event) {
		received.Add(1)
		wg.Done()
	})

	bus.Publish(&mockEvent{name: "test"})

	waitOrFail(t, &wg, time.Second)
	if received.Load() != 1 {
		t.Errorf("Expected 1 event, got %d", received.Load())
	}
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)

	for i := 0; i < 3; i++ {
		bus.Subscribe(func(e event.Event) {
			received.Add(1)
			wg.Done()
		})
	}

	bus.Publish(&mockEvent{name: "test"})

	waitOrFail(t, &wg, time.Second)
	if received.Load() != 3 {
		t.Errorf("Expected 3 events, got %d", received.Load())
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := New(10)

	var received atomic.Int32
	subID := bus.Subscribe(func(e event.Event) {
		received.Add(1)
	})

	bus.Unsubscribe(subID)
	bus.Unsubscribe(subID)
	bus.Publish(&mockEvent{name: "test"})
	bus.Close()

	if received.Load() != 0 {
		t.Errorf("Expected 0 events after unsubscribe, got %d", received.Load())
	}
}

func TestEventBus_Close(t *testing.T) {
	bus := New(10)

	var received atomic.Int32
	bus.Subscribe(func(e event.Event) {
		received.Add(1)
	})

	bus.Close()
	bus.Publish(&mockEvent{name: "test"})

	time.Sleep(50 * time.Millisecond)

	if received.Load() != 0 {
		t.Errorf("Expected 0 events after close, got %d", received.Load())
	}

	// Close again should not panic
	bus.Close()
}

func TestEventBus_CloseDeliversQueued(t *testing.T) {
	bus := New(100)

	var received atomic.Int32
	bus.Subscribe(func(e event.Event) {
		received.Add(1)
	})

	for i := 0; i < 50; i++ {
		bus.Publish(&mockEvent{name: "test"})
	}
	bus.Close()

	if received.Load() != 50 {
		t.Errorf("Expected 50 events delivered before close returned, got %d", received.Load())
	}
}

func TestEventBus_HandlerPanic(t *testing.T) {
	bus := New(10)
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)

	bus.Subscribe(func(e event.Event) {
		panic("test panic")
	})
	bus.Subscribe(func(e event.Event) {
		received.Add(1)
		wg.Done()
	})

	bus.Publish(&mockEvent{name: "test"})

	waitOrFail(t, &wg, time.Second)
	if received.Load() != 1 {
		t.Errorf("Expected 1 event despite panic, got %d", received.Load())
	}
}

func TestEventBus_PreservesOrder(t *testing.T) {
	// Tiny buffer forces Publish to wait instead of dropping.
	bus := New(1)
	defer bus.Close()

	const numEvents = 200
	var mu sync.Mutex
	var got []string
	var wg sync.WaitGroup
	wg.Add(numEvents)

	bus.Subscribe(func(e event.Event) {
		mu.Lock()
		got = append(got, e.EventName())
		mu.Unlock()
		wg.Done()
	})

	names := make([]string, numEvents)
	for i := range names {
		names[i] = string(rune('a'+i%26)) + string(rune('0'+i/26))
		bus.Publish(&mockEvent{name: names[i]})
	}

	waitOrFail(t, &wg, 5*time.Second)

	mu.Lock()
	defer mu.Unlock()
	for i := range names {
		if got[i] != names[i] {
			t.Fatalf("event %d = %q, want %q", i, got[i], names[i])
		}
	}
}

func TestEventBus_ConcurrentPublish(t *testing.T) {
	bus := New(8)
	defer bus.Close()

	var received atomic.Int32
	var wg sync.WaitGroup

	const numEvents = 100
	wg.Add(numEvents)

	bus.Subscribe(func(e event.Event) {
		received.Add(1)
		wg.Done()
	})

	for i := 0; i < numEvents; i++ {
		go bus.Publish(&mockEvent{name: "test"})
	}

	waitOrFail(t, &wg, 5*time.Second)
	if received.Load() != numEvents {
		t.Errorf("Expected %d events, got %d", numEvents, received.Load())
	}
}
