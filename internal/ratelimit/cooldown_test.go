package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/zeroends/skinhub/internal/cache/memory"
)

func TestCheckAndMark(t *testing.T) {
	t.Parallel()
	c := New(memory.New(time.Minute), time.Minute)
	id := uuid.New()

	if !c.CheckAndMark(id) {
		t.Fatal("first CheckAndMark blocked")
	}
	if c.CheckAndMark(id) {
		t.Fatal("second CheckAndMark allowed within the window")
	}
	if !c.Blocked(id) {
		t.Fatal("Blocked = false with a live mark")
	}
	if !c.CheckAndMark(uuid.New()) {
		t.Fatal("unrelated identity blocked")
	}
}

func TestCheckAndMarkExpires(t *testing.T) {
	t.Parallel()
	c := New(memory.New(time.Minute), 20*time.Millisecond)
	id := uuid.New()

	if !c.CheckAndMark(id) {
		t.Fatal("first CheckAndMark blocked")
	}
	time.Sleep(50 * time.Millisecond)
	if !c.CheckAndMark(id) {
		t.Fatal("CheckAndMark blocked after the window elapsed")
	}
}

func TestCheckAndMarkConcurrentSingleWinner(t *testing.T) {
	t.Parallel()
	c := New(memory.New(time.Minute), time.Minute)
	id := uuid.New()

	const n = 32
	var wins int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if c.CheckAndMark(id) {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("winners = %d; want exactly 1", wins)
	}
}

func TestRemaining(t *testing.T) {
	t.Parallel()
	c := New(memory.New(time.Minute), time.Minute)
	id := uuid.New()

	if got := c.Remaining(id); got != 0 {
		t.Fatalf("Remaining without mark = %v", got)
	}
	c.CheckAndMark(id)
	got := c.Remaining(id)
	if got <= 0 || got > time.Minute {
		t.Fatalf("Remaining = %v; want within (0, 1m]", got)
	}

	c.Clear(id)
	if got := c.Remaining(id); got != 0 {
		t.Fatalf("Remaining after Clear = %v", got)
	}
}
