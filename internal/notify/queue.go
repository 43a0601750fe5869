// Package notify buffers per-session toast messages until the client
// polls them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grocerlane/gateway/pkg/config"
	"github.com/grocerlane/gateway/pkg/enums"
)

// maxPerSession bounds the backlog; the oldest toasts are dropped first.
const maxPerSession = 20

// Toast is one message waiting for the client.
type Toast struct {
	ID        string              `json:"id"`
	Severity  enums.ToastSeverity `json:"severity"`
	Summary   string              `json:"summary"`
	Detail    string              `json:"detail,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
}

// Queue holds undelivered toasts keyed by session.
type Queue struct {
	mu        sync.Mutex
	ttl       time.Duration
	bySession map[string][]Toast
	now       func() time.Time
}

// NewQueue builds a queue whose toasts expire after the configured TTL.
func NewQueue(cfg config.ToastConfig) *Queue {
	return &Queue{
		ttl:       cfg.TTL,
		bySession: make(map[string][]Toast),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Push appends a toast for the session and returns it.
func (q *Queue) Push(sessionID string, severity enums.ToastSeverity, summary, detail string) Toast {
	if !severity.IsValid() {
		severity = enums.ToastSeverityInfo
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	toast := Toast{
		ID:        uuid.NewString(),
		Severity:  severity,
		Summary:   summary,
		Detail:    detail,
		CreatedAt: q.now(),
	}

	pending := q.pruneLocked(sessionID)
	pending = append(pending, toast)
	if len(pending) > maxPerSession {
		pending = pending[len(pending)-maxPerSession:]
	}
	q.bySession[sessionID] = pending

	return toast
}

// List returns the session's live toasts, purging expired ones. Toasts
// stay queued until they expire or are dismissed.
func (q *Queue) List(sessionID string) []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := q.pruneLocked(sessionID)
	if len(pending) == 0 {
		delete(q.bySession, sessionID)
	} else {
		q.bySession[sessionID] = pending
	}
	return append([]Toast(nil), pending...)
}

// Dismiss removes one toast by id and reports whether it was found.
func (q *Queue) Dismiss(sessionID, toastID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := q.pruneLocked(sessionID)
	for i, toast := range pending {
		if toast.ID == toastID {
			q.bySession[sessionID] = append(pending[:i], pending[i+1:]...)
			return true
		}
	}
	q.bySession[sessionID] = pending
	return false
}

// Clear discards everything queued for the session.
func (q *Queue) Clear(sessionID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.bySession, sessionID)
}

func (q *Queue) pruneLocked(sessionID string) []Toast {
	pending := q.bySession[sessionID]
	if len(pending) == 0 {
		return []Toast{}
	}

	cutoff := q.now().Add(-q.ttl)
	live := pending[:0]
	for _, toast := range pending {
		if toast.CreatedAt.After(cutoff) {
			live = append(live, toast)
		}
	}
	return live
}
