package jobmgr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) report(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) states(name string) []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []State
	for _, e := range r.events {
		if e.Name == name {
			out = append(out, e.State)
		}
	}
	return out
}

func TestGoReportsErrorsAndPanics(t *testing.T) {
	rec := &recorder{}
	m := NewManager(rec.report)

	m.Go("ok", func(ctx context.Context) error { return nil })
	m.Go("fail", func(ctx context.Context) error { return errors.New("boom") })
	m.Go("panic", func(ctx context.Context) error { panic("oops") })
	m.Wait()

	tests := map[string]State{"ok": StateDone, "fail": StateError, "panic": StateError}
	for name, want := range tests {
		states := rec.states(name)
		if len(states) != 2 || states[0] != StateRunning || states[1] != want {
			t.Errorf("%s states = %v, want [running %s]", name, states, want)
		}
	}
}

func TestReplaceCancelsPrevious(t *testing.T) {
	rec := &recorder{}
	m := NewManager(rec.report)
	defer m.Shutdown()

	started := make(chan struct{})
	var firstCanceled bool
	m.Replace("sink", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		firstCanceled = true
		return ctx.Err()
	})
	<-started

	release := make(chan struct{})
	m.Replace("sink", func(ctx context.Context) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	// Replace waits for the previous job, so this read is ordered after it.
	if !firstCanceled {
		t.Fatal("first job was not canceled before the second started")
	}
	if !m.Running("sink") {
		t.Fatal("second job should be running")
	}

	close(release)
	m.Wait()

	if m.Running("sink") {
		t.Error("job should be removed after completion")
	}
	states := rec.states("sink")
	want := []State{StateRunning, StateCanceled, StateRunning, StateDone}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	m := NewManager(nil)
	if m.Stop("missing") {
		t.Error("Stop on missing key reported true")
	}

	m.Replace("k", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !m.Stop("k") {
		t.Error("Stop on running key reported false")
	}
	if m.Stop("k") {
		t.Error("second Stop reported true")
	}
	if got := m.Status(); got != "No jobs are running." {
		t.Errorf("Status() = %q", got)
	}
}

func TestShutdownCancelsEverything(t *testing.T) {
	m := NewManager(nil)
	for _, k := range []string{"a", "b"} {
		m.Replace(k, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
	}
	m.Go("loose", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	done := make(chan struct{})
	go func() {
		m.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return")
	}
}
