package sadp

import (
	"sync"
	"testing"
)

func TestCounterSequencing(t *testing.T) {
	c := NewCounter(100)

	if got := c.Get(); got != 100 {
		t.Errorf("Get() = %d, want 100", got)
	}
	if got := c.GetAndIncrement(); got != 100 {
		t.Errorf("GetAndIncrement() = %d, want 100", got)
	}
	if got := c.Get(); got != 101 {
		t.Errorf("Get() after GetAndIncrement = %d, want 101", got)
	}

	c.Increment()
	if got := c.Get(); got != 102 {
		t.Errorf("Get() after Increment = %d, want 102", got)
	}

	c.Set(7)
	if got := c.Get(); got != 7 {
		t.Errorf("Get() after Set = %d, want 7", got)
	}
}

func TestCounterWraparound(t *testing.T) {
	c := NewCounter(0xFFFFFFFF)
	if got := c.GetAndIncrement(); got != 0xFFFFFFFF {
		t.Errorf("GetAndIncrement() = 0x%08x, want 0xffffffff", got)
	}
	if got := c.Get(); got != 0 {
		t.Errorf("Get() after wrap = %d, want 0", got)
	}
}

func TestCounterConcurrentIncrements(t *testing.T) {
	const (
		goroutines = 8
		perWorker  = 1000
	)

	c := NewCounter(0)
	seen := make([]map[uint32]bool, goroutines)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		seen[g] = make(map[uint32]bool, perWorker)
		wg.Add(1)
		go func(out map[uint32]bool) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				out[c.GetAndIncrement()] = true
			}
		}(seen[g])
	}
	wg.Wait()

	all := make(map[uint32]bool, goroutines*perWorker)
	for _, m := range seen {
		for v := range m {
			if all[v] {
				t.Fatalf("sequence %d issued twice", v)
			}
			all[v] = true
		}
	}
	if len(all) != goroutines*perWorker {
		t.Errorf("issued %d distinct sequences, want %d", len(all), goroutines*perWorker)
	}
	if got := c.Get(); got != goroutines*perWorker {
		t.Errorf("Get() = %d, want %d", got, goroutines*perWorker)
	}
}
