package utils

import (
	"container/list"
	"errors"
	"sync"
	"time"
)

// ErrQueueTimeout is returned by Get when no item arrives in time.
var ErrQueueTimeout = errors.New("utils: queue read timed out")

// Queue is a FIFO with a blocking, deadline-bounded Get.
type Queue[T any] struct {
	mu        sync.Mutex
	notEmpty  chan struct{}
	container *list.List
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		container: list.New(),
		notEmpty:  make(chan struct{}, 1),
	}
}

// Put appends an item and wakes one pending Get.
func (q *Queue[T]) Put(item T) {
	q.mu.Lock()
	q.container.PushBack(item)
	q.mu.Unlock()
	select {
	case q.notEmpty <- struct{}{}:
	default:
	}
}

// Get removes and returns the oldest item, waiting up to timeout for one
// to arrive.
func (q *Queue[T]) Get(timeout time.Duration) (T, error) {
	deadline := time.Now().Add(timeout)
	for {
		q.mu.Lock()
		if front := q.container.Front(); front != nil {
			q.container.Remove(front)
			q.mu.Unlock()
			return front.Value.(T), nil
		}
		q.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			var zero T
			return zero, ErrQueueTimeout
		}

		timer := time.NewTimer(remaining)
		select {
		case <-q.notEmpty:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// Len reports the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.container.Len()
}
