package latch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCompleteOnce(t *testing.T) {
	l := New[int]()

	if !l.Complete(1) {
		t.Fatal("first Complete should settle the latch")
	}
	if l.Complete(2) {
		t.Error("second Complete should be ignored")
	}
	if l.Fail(errors.New("late")) {
		t.Error("Fail after Complete should be ignored")
	}

	v, err := l.Wait(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Errorf("got %d, want 1 (first settlement wins)", v)
	}
}

func TestFailOnce(t *testing.T) {
	boom := errors.New("boom")
	l := New[string]()

	if !l.Fail(boom) {
		t.Fatal("first Fail should settle the latch")
	}
	if l.Complete("late") {
		t.Error("Complete after Fail should be ignored")
	}

	_, err := l.Wait(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
}

func TestWaitBeforeSettlement(t *testing.T) {
	l := New[int]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		l.Complete(7)
	}()

	v, err := l.Wait(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 7 {
		t.Errorf("got %d, want 7", v)
	}
}

func TestWaitAfterSettlement(t *testing.T) {
	l := Completed("done")

	// Every wait after settlement observes the same value.
	for i := 0; i < 3; i++ {
		v, err := l.Wait(context.Background())
		if err != nil || v != "done" {
			t.Fatalf("wait %d: got (%q, %v), want (done, nil)", i, v, err)
		}
	}
}

func TestWaitContextCancel(t *testing.T) {
	l := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if l.Settled() {
		t.Error("context cancellation must not settle the latch")
	}
}

func TestTryGet(t *testing.T) {
	l := New[int]()

	if _, ok, _ := l.TryGet(); ok {
		t.Error("TryGet should report unsettled before settlement")
	}

	l.Complete(5)

	v, ok, err := l.TryGet()
	if !ok || err != nil || v != 5 {
		t.Errorf("got (%d, %v, %v), want (5, true, nil)", v, ok, err)
	}
}

func TestDoneBroadcast(t *testing.T) {
	l := New[int]()

	const waiters = 8
	var wg sync.WaitGroup
	results := make([]int, waiters)

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-l.Done()
			v, _, _ := l.TryGet()
			results[i] = v
		}(i)
	}

	l.Complete(9)
	wg.Wait()

	for i, v := range results {
		if v != 9 {
			t.Errorf("waiter %d observed %d, want 9", i, v)
		}
	}
}

func TestConcurrentSettle(t *testing.T) {
	l := New[int]()

	var wg sync.WaitGroup
	var won int32
	results := make(chan bool, 16)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- l.Complete(i)
		}(i)
	}
	wg.Wait()
	close(results)

	for r := range results {
		if r {
			won++
		}
	}
	if won != 1 {
		t.Errorf("%d goroutines settled the latch, want exactly 1", won)
	}
}

func TestFailedConstructor(t *testing.T) {
	boom := errors.New("boom")
	l := Failed[int](boom)

	if !l.Settled() {
		t.Fatal("Failed should return a settled latch")
	}
	_, _, err := l.TryGet()
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
}
