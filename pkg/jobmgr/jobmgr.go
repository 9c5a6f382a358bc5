// Package jobmgr runs units of work in their own goroutines and makes sure
// every outcome is reported.
//
// Two flavours are supported:
//
//	jm := jobmgr.NewManager(func(e jobmgr.Event) {
//	    log.Printf("%s %s %v", e.State, e.Name, e.Err)
//	})
//
//	// Fire-and-forget task; many may share a name.
//	jm.Go("presence", func(ctx context.Context) error { ... })
//
//	// Keyed job; starting a new one under the same key cancels the old one
//	// and waits for it to exit first.
//	jm.Replace("sink:123", func(ctx context.Context) error { ... })
//	jm.Stop("sink:123")
//
// No retries and no persistence.
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// State is a job lifecycle stage.
type State string

const (
	StateRunning  State = "running"
	StateDone     State = "done"
	StateCanceled State = "canceled"
	StateError    State = "error"
)

// Event is delivered to the Reporter on every lifecycle change.
type Event struct {
	Name  string
	State State
	Err   error
}

// Reporter receives lifecycle events. It may be called from any goroutine.
type Reporter func(Event)

type job struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager tracks running jobs. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	base     context.Context
	stopAll  context.CancelFunc
	keyed    map[string]*job
	wg       sync.WaitGroup
	reporter Reporter
}

// NewManager creates a new Manager. The reporter may be nil.
func NewManager(reporter Reporter) *Manager {
	base, cancel := context.WithCancel(context.Background())
	return &Manager{
		base:     base,
		stopAll:  cancel,
		keyed:    make(map[string]*job),
		reporter: reporter,
	}
}

// Go runs fn in a new goroutine. Its result, including a recovered panic,
// goes to the reporter.
func (m *Manager) Go(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithCancel(m.base)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		m.run(ctx, name, fn)
	}()
}

// Replace cancels the job running under key (if any), waits for it to exit,
// then starts fn under key. Concurrent Replace calls on one key are
// serialized: the one that starts last is the one left running.
func (m *Manager) Replace(key string, fn func(ctx context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.keyed[key]; ok {
		prev.cancel()
		<-prev.done
	}

	ctx, cancel := context.WithCancel(m.base)
	j := &job{name: key, cancel: cancel, done: make(chan struct{})}
	m.keyed[key] = j

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(ctx, key, fn)
		cancel()
		// done is closed before taking mu: Replace waits on it while holding mu.
		close(j.done)

		m.mu.Lock()
		if m.keyed[key] == j {
			delete(m.keyed, key)
		}
		m.mu.Unlock()
	}()
}

// Stop cancels the job under key and waits for it to exit. It reports
// whether a job was running.
func (m *Manager) Stop(key string) bool {
	m.mu.Lock()
	j, ok := m.keyed[key]
	if ok {
		delete(m.keyed, key)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	j.cancel()
	<-j.done
	return true
}

// Running reports whether a keyed job is active.
func (m *Manager) Running(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.keyed[key]
	return ok
}

// List returns the keys of active keyed jobs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.keyed))
	for k := range m.keyed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status returns a human-readable summary of active keyed jobs.
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

// Shutdown cancels every job and waits for all of them to return.
func (m *Manager) Shutdown() {
	m.stopAll()
	m.wg.Wait()
}

// Wait blocks until every job started so far has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) run(ctx context.Context, name string, fn func(ctx context.Context) error) {
	m.report(Event{Name: name, State: StateRunning})

	err := safeCall(ctx, fn)
	switch {
	case err == nil:
		m.report(Event{Name: name, State: StateDone})
	case errors.Is(err, context.Canceled):
		m.report(Event{Name: name, State: StateCanceled})
	default:
		m.report(Event{Name: name, State: StateError, Err: err})
	}
}

func safeCall(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

func (m *Manager) report(e Event) {
	if m.reporter != nil {
		m.reporter(e)
	}
}
