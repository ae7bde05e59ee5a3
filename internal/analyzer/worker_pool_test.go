package analyzer

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_RunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Close()

	var counter atomic.Int64
	const jobs = 100
	for i := 0; i < jobs; i++ {
		if !pool.Submit(func() { counter.Add(1) }) {
			t.Fatal("Submit returned false on an open pool")
		}
	}
	pool.Wait()

	if counter.Load() != jobs {
		t.Errorf("ran %d jobs, want %d", counter.Load(), jobs)
	}

	stats := pool.GetStats()
	if stats.TotalJobs != jobs {
		t.Errorf("TotalJobs = %d, want %d", stats.TotalJobs, jobs)
	}
	if stats.CompletedJobs != jobs {
		t.Errorf("CompletedJobs = %d, want %d", stats.CompletedJobs, jobs)
	}
	if stats.ActiveWorkers != 0 {
		t.Errorf("ActiveWorkers = %d after Wait, want 0", stats.ActiveWorkers)
	}
}

func TestWorkerPool_SubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Close()

	if pool.Submit(func() {}) {
		t.Error("Submit must return false after Close")
	}
}

func TestWorkerPool_CloseIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()
	pool.Close()
	pool.Close() // must not panic
}

func TestWorkerPool_DefaultWorkerCount(t *testing.T) {
	pool := NewWorkerPool(0)
	pool.Start()
	defer pool.Close()

	if pool.workers <= 0 {
		t.Errorf("expected a positive default worker count, got %d", pool.workers)
	}

	done := make(chan struct{})
	if !pool.Submit(func() { close(done) }) {
		t.Fatal("Submit failed")
	}
	<-done
}

func TestWorkerPool_ConcurrentSubmitters(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Close()

	var counter atomic.Int64
	var wg sync.WaitGroup
	const submitters = 8
	const perSubmitter = 50

	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSubmitter; j++ {
				pool.Submit(func() { counter.Add(1) })
			}
		}()
	}
	wg.Wait()
	pool.Wait()

	if counter.Load() != submitters*perSubmitter {
		t.Errorf("ran %d jobs, want %d", counter.Load(), submitters*perSubmitter)
	}
}
