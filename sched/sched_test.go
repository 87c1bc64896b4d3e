package sched

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEnqueueRunsTask(t *testing.T) {
	s := New(DefaultOptions())
	defer s.Close()

	done := make(chan struct{})
	s.Enqueue(0, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
}

func TestEnqueueDelaysExecution(t *testing.T) {
	s := New(DefaultOptions())
	defer s.Close()

	start := time.Now()
	done := make(chan time.Duration, 1)
	s.Enqueue(50*time.Millisecond, func() { done <- time.Since(start) })

	select {
	case elapsed := <-done:
		if elapsed < 40*time.Millisecond {
			t.Fatalf("task ran after %v, wanted at least ~50ms", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
}

// TestTasksNeverOverlap confirms the single-worker guarantee (§4.4,
// open question (a)): no two enqueued tasks are ever mid-flight at the
// same time, even when many are armed with the same delay.
func TestTasksNeverOverlap(t *testing.T) {
	s := New(DefaultOptions())
	defer s.Close()

	const n = 20
	var inFlight int32
	var maxSeen int32
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		s.Enqueue(0, func() {
			defer wg.Done()
			cur := atomic.AddInt32(&inFlight, 1)
			for {
				prev := atomic.LoadInt32(&maxSeen)
				if cur <= prev || atomic.CompareAndSwapInt32(&maxSeen, prev, cur) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		})
	}

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks never completed")
	}

	if maxSeen != 1 {
		t.Fatalf("max concurrent tasks = %d, want 1", maxSeen)
	}
}

func TestCloseStopsFutureDelivery(t *testing.T) {
	s := New(DefaultOptions())

	ran := make(chan struct{}, 1)
	s.Enqueue(50*time.Millisecond, func() { ran <- struct{}{} })
	s.Close()

	select {
	case <-ran:
		t.Fatal("task ran after Close")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestRunTaskRecoversPanic(t *testing.T) {
	s := New(DefaultOptions())
	defer s.Close()

	done := make(chan struct{})
	s.Enqueue(0, func() { panic("boom") })
	s.Enqueue(0, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler stalled after a panicking task")
	}
}
