package theme

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const delay = 20 * time.Millisecond

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(delay)
	defer d.Stop()

	var mu sync.Mutex
	var calls []int
	for i := 1; i <= 10; i++ {
		v := i
		d.Do("primary_color", func() {
			mu.Lock()
			calls = append(calls, v)
			mu.Unlock()
		})
	}

	time.Sleep(5 * delay)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != 10 {
		t.Errorf("calls = %v, want [10]", calls)
	}
}

func TestDebouncerKeysIndependent(t *testing.T) {
	d := NewDebouncer(delay)
	defer d.Stop()

	var a, b atomic.Int32
	d.Do("bg_color", func() { a.Add(1) })
	d.Do("text_color", func() { b.Add(1) })
	d.Do("bg_color", func() { a.Add(1) })

	time.Sleep(5 * delay)

	if a.Load() != 1 || b.Load() != 1 {
		t.Errorf("a=%d b=%d, want 1 each", a.Load(), b.Load())
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(delay)
	defer d.Stop()

	var n atomic.Int32
	d.Do("k", func() { n.Add(1) })
	d.Cancel("k")
	d.Cancel("missing")

	time.Sleep(5 * delay)
	if n.Load() != 0 {
		t.Errorf("cancelled call ran %d times", n.Load())
	}
}

func TestDebouncerFlush(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Stop()

	var order []string
	d.Do("b", func() { order = append(order, "b") })
	d.Do("a", func() { order = append(order, "a") })

	if d.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", d.Pending())
	}
	d.Flush()
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v, want [a b]", order)
	}
	if d.Pending() != 0 {
		t.Errorf("pending after flush = %d", d.Pending())
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(delay)

	var n atomic.Int32
	d.Do("k", func() { n.Add(1) })
	d.Stop()
	d.Do("k", func() { n.Add(1) })
	// Safe to call twice.
	d.Stop()

	time.Sleep(5 * delay)
	if n.Load() != 0 {
		t.Errorf("calls after stop = %d, want 0", n.Load())
	}
	if d.Pending() != 0 {
		t.Errorf("pending = %d", d.Pending())
	}
}
