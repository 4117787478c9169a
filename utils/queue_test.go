package utils

import (
	"testing"
	"time"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int]()
	q.Put(1)
	q.Put(2)
	q.Put(3)

	for want := 1; want <= 3; want++ {
		got, err := q.Get(time.Millisecond)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, len %d", q.Len())
	}
}

func TestQueueGetTimesOut(t *testing.T) {
	q := NewQueue[string]()

	start := time.Now()
	_, err := q.Get(10 * time.Millisecond)
	if err != ErrQueueTimeout {
		t.Fatalf("expected ErrQueueTimeout, got %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("Get returned before the deadline")
	}
}

func TestQueueGetWakesOnPut(t *testing.T) {
	q := NewQueue[string]()

	go func() {
		time.Sleep(5 * time.Millisecond)
		q.Put("hello")
	}()

	got, err := q.Get(time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}
}

func TestQueueConcurrentPut(t *testing.T) {
	q := NewQueue[int]()
	const n = 100

	for i := 0; i < n; i++ {
		go q.Put(i)
	}

	seen := make(map[int]bool)
	for i := 0; i < n; i++ {
		v, err := q.Get(time.Second)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if seen[v] {
			t.Fatalf("duplicate item %d", v)
		}
		seen[v] = true
	}
}
