package client

import (
	"sync"
	"time"

	"campus-portal/internal/models"
	"campus-portal/pkg/logger"
)

// DefaultDisplayDuration is how long a toast stays on screen before it
// expires on its own.
const DefaultDisplayDuration = 5000 * time.Millisecond

// Toast is one active notification. ID and ReceivedAt are stamped locally
// at arrival; the server never sees either.
type Toast struct {
	ID         int64
	Type       models.NotificationType
	Title      string
	Message    string
	Link       string
	ReceivedAt time.Time
}

// Player attempts to play the notification sound. Implementations are
// expected to fail quietly; the store logs and swallows any error.
type Player interface {
	Play() error
}

// Store holds the active toasts, newest first. Each entry expires
// displayDuration after insertion unless dismissed manually first;
// dismissal and expiry are both idempotent removals, so whichever fires
// first wins and the loser is a no-op.
type Store struct {
	mu       sync.Mutex
	toasts   []*Toast
	timers   map[int64]*time.Timer
	lastID   int64
	duration time.Duration
	player   Player
	onChange func([]Toast)
}

// NewStore creates a Store. player may be nil for a silent client and
// onChange may be nil; when set, it is called with a snapshot after every
// mutation, outside the store's lock.
func NewStore(duration time.Duration, player Player, onChange func([]Toast)) *Store {
	if duration <= 0 {
		duration = DefaultDisplayDuration
	}
	return &Store{
		timers:   make(map[int64]*time.Timer),
		duration: duration,
		player:   player,
		onChange: onChange,
	}
}

// Add stamps the notification with a session-unique id and arrival time,
// prepends it and schedules its expiry.
func (s *Store) Add(n models.Notification) *Toast {
	now := time.Now()

	s.mu.Lock()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	toast := &Toast{
		ID:         id,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		Link:       n.Link,
		ReceivedAt: now,
	}
	s.toasts = append([]*Toast{toast}, s.toasts...)
	s.timers[id] = time.AfterFunc(s.duration, func() { s.Dismiss(id) })
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if s.player != nil {
		if err := s.player.Play(); err != nil {
			logger.Debug("Notification sound failed: %v", err)
		}
	}
	s.notify(snapshot)
	return toast
}

// Dismiss removes the toast with the given id. Dismissing an id that is
// already gone is a no-op.
func (s *Store) Dismiss(id int64) {
	s.mu.Lock()
	idx := -1
	for i, t := range s.toasts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	s.toasts = append(s.toasts[:idx], s.toasts[idx+1:]...)
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
}

// Active returns the current toasts, newest first.
func (s *Store) Active() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close cancels every pending expiry timer.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Store) snapshotLocked() []Toast {
	out := make([]Toast, len(s.toasts))
	for i, t := range s.toasts {
		out[i] = *t
	}
	return out
}

func (s *Store) notify(snapshot []Toast) {
	if s.onChange != nil {
		s.onChange(snapshot)
	}
}
