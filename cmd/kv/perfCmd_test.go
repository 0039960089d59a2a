package kv

import (
	"errors"
	"sync"
	"testing"
)

func TestPerfStats(t *testing.T) {
	stats := newPerfStats()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				stats.observe("set", func() error {
					if j%10 == 0 {
						return errors.New("failed")
					}
					return nil
				})
			}
		}(i)
	}
	wg.Wait()

	timer, ok := stats.timers.Load("set")
	if !ok {
		t.Fatal("expected a timer for set")
	}
	if timer.Count() != 800 {
		t.Errorf("expected 800 observations, got %d", timer.Count())
	}
	if got := stats.errorCount("set"); got != 80 {
		t.Errorf("expected 80 errors, got %d", got)
	}
	if got := stats.errorCount("get"); got != 0 {
		t.Errorf("expected no errors for an unknown test, got %d", got)
	}
}

func TestGetKeys(t *testing.T) {
	perfKeySpread = 3
	t.Cleanup(func() { perfKeySpread = 100 })

	getKey, iter := getKeys("get")
	if getKey(0) != getKey(3) {
		t.Errorf("expected keys to wrap around, got %s and %s", getKey(0), getKey(3))
	}
	if getKey(1) != "__test-get-1" {
		t.Errorf("unexpected key %s", getKey(1))
	}

	n := 0
	iter(func(string) { n++ })
	if n != 3 {
		t.Errorf("expected 3 keys, got %d", n)
	}
}

func TestShouldSkip(t *testing.T) {
	perfSkip = []string{"set", " get"}
	t.Cleanup(func() { perfSkip = nil })

	if !shouldSkip("set") || !shouldSkip("get") {
		t.Error("expected set and get to be skipped")
	}
	if shouldSkip("has") {
		t.Error("expected has not to be skipped")
	}
}
