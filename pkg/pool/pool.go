package pool

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// task is what a worker receives from the pool.
//
// A task either evaluates f once at index i, or, when search is set, keeps
// evaluating f until enough successful results have been collected.
type task struct {
	search bool
	i      int
	// remaining counts the results still to be produced by a search.
	remaining *int64
	f         func(int) (interface{}, bool)
	results   []interface{}
	wg        *sync.WaitGroup
}

func (t task) run() {
	defer t.wg.Done()
	if !t.search {
		t.results[t.i], _ = t.f(t.i)
		return
	}
	for atomic.LoadInt64(t.remaining) > 0 {
		res, ok := t.f(0)
		if !ok {
			continue
		}
		i := atomic.AddInt64(t.remaining, -1)
		if i < 0 {
			return
		}
		t.results[i] = res
	}
}

func worker(tasks <-chan task) {
	for t := range tasks {
		t.run()
	}
}

// Pool is a set of long-lived workers used to spread CPU heavy work,
// such as prime generation, across cores.
//
// A nil *Pool is valid, and runs everything on the calling goroutine.
type Pool struct {
	tasks       chan task
	workerCount int
}

// NewPool creates a new pool with count workers.
//
// If count <= 0, the number of available CPUs is used instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	p := &Pool{
		tasks:       make(chan task),
		workerCount: count,
	}
	for i := 0; i < count; i++ {
		go worker(p.tasks)
	}
	return p
}

// TearDown stops all workers. The pool must not be used afterwards.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	close(p.tasks)
}

// Search calls f until count successful results are found, and returns them.
//
// f tries a single candidate, and reports whether it was successful.
// The order of the results is unspecified.
func Search[T any](p *Pool, count int, f func() (T, bool)) []T {
	out := make([]T, count)
	if p == nil {
		for i := range out {
			for ok := false; !ok; {
				out[i], ok = f()
			}
		}
		return out
	}

	var wg sync.WaitGroup
	results := make([]interface{}, count)
	remaining := int64(count)
	t := task{
		search:    true,
		remaining: &remaining,
		f: func(int) (interface{}, bool) {
			return f()
		},
		results: results,
		wg:      &wg,
	}
	wg.Add(p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		p.tasks <- t
	}
	wg.Wait()

	for i, r := range results {
		if r != nil {
			out[i] = r.(T)
		}
	}
	return out
}

// Parallelize evaluates f at 0, …, count-1 and returns [f(0), …, f(count-1)].
func Parallelize[T any](p *Pool, count int, f func(int) T) []T {
	out := make([]T, count)
	if p == nil {
		for i := range out {
			out[i] = f(i)
		}
		return out
	}

	var wg sync.WaitGroup
	results := make([]interface{}, count)
	g := func(i int) (interface{}, bool) {
		return f(i), true
	}
	wg.Add(count)
	for i := 0; i < count; i++ {
		p.tasks <- task{
			i:       i,
			f:       g,
			results: results,
			wg:      &wg,
		}
	}
	wg.Wait()

	for i, r := range results {
		if r != nil {
			out[i] = r.(T)
		}
	}
	return out
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// Every Read acquires a lock, so concurrent readers never observe the same bytes.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
