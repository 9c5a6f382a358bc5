package ratelimit

import (
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestKeyedBurstAndRefill(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	k := NewKeyed(2*time.Second, 3)
	k.now = c.now

	for i := 0; i < 3; i++ {
		if !k.Allow("u1") {
			t.Fatalf("request %d denied within burst", i)
		}
	}
	if k.Allow("u1") {
		t.Fatal("request over burst allowed")
	}
	if !k.Allow("u2") {
		t.Fatal("keys must not share a bucket")
	}

	c.t = c.t.Add(2 * time.Second)
	if !k.Allow("u1") {
		t.Error("token not refilled")
	}
	if k.Allow("u1") {
		t.Error("only one token should have refilled")
	}
}

func TestKeyedPrunesIdleKeys(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	k := NewKeyed(time.Second, 1)
	k.now = c.now

	k.Allow("a")
	k.Allow("b")
	c.t = c.t.Add(idleAfter + time.Second)
	k.Allow("c")

	if got := k.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
}

func TestKeyedDisabled(t *testing.T) {
	k := NewKeyed(0, 1)
	for i := 0; i < 100; i++ {
		if !k.Allow("u") {
			t.Fatal("disabled limiter denied")
		}
	}
	var nilKeyed *Keyed
	if !nilKeyed.Allow("u") {
		t.Error("nil limiter denied")
	}
}
