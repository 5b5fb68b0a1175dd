package ratelimit

import "testing"

func TestAllowWithinBurst(t *testing.T) {
	l := New(60, 5)
	for i := 0; i < 5; i++ {
		if !l.Allow("key-a") {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}
}

func TestDeniesBeyondBurst(t *testing.T) {
	l := New(1, 2)
	l.Allow("key-a")
	l.Allow("key-a")
	if l.Allow("key-a") {
		t.Error("request beyond burst should be denied")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(1, 1)
	if !l.Allow("key-a") {
		t.Fatal("first request for key-a should be allowed")
	}
	if !l.Allow("key-b") {
		t.Error("key-b should have its own bucket")
	}
}

func TestResetClearsKey(t *testing.T) {
	l := New(1, 1)
	l.Allow("key-a")
	if l.Allow("key-a") {
		t.Fatal("second request should be denied before reset")
	}
	l.Reset("key-a")
	if !l.Allow("key-a") {
		t.Error("request after Reset should be allowed")
	}
}

func TestBurstFloor(t *testing.T) {
	l := New(60, 0)
	if !l.Allow("key-a") {
		t.Error("burst below 1 should be floored to 1, allowing the first request")
	}
}
