package storefront

import (
	"sync"
	"time"
)

type ToastKind string

const (
	ToastSuccess     ToastKind = "success"
	ToastError       ToastKind = "error"
	ToastInfo        ToastKind = "info"
	ToastCelebration ToastKind = "celebration"

	maxToasts = 20
)

type Toast struct {
	Kind      ToastKind
	Message   string
	CreatedAt time.Time
}

// ToastQueue keeps the most recent notifications until the UI drains them.
type ToastQueue struct {
	mu     sync.Mutex
	toasts []Toast
}

func (q *ToastQueue) Push(kind ToastKind, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.toasts = append(q.toasts, Toast{Kind: kind, Message: message, CreatedAt: time.Now()})
	if len(q.toasts) > maxToasts {
		q.toasts = q.toasts[len(q.toasts)-maxToasts:]
	}
}

func (q *ToastQueue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	toasts := q.toasts
	q.toasts = nil
	return toasts
}
