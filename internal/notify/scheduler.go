package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// timerScheduler implements Scheduler with one time.Timer per pending alert.
type timerScheduler struct {
	sender Sender
	logger zerolog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	items  map[string]string // handle -> item id
}

// NewScheduler creates a timer-backed scheduler delivering through sender.
func NewScheduler(sender Sender, logger zerolog.Logger) Scheduler {
	return &timerScheduler{
		sender: sender,
		logger: logger.With().Str("component", "notify-scheduler").Logger(),
		timers: make(map[string]*time.Timer),
		items:  make(map[string]string),
	}
}

// RequestPermission reports whether a sender is configured.
func (s *timerScheduler) RequestPermission(ctx context.Context) bool {
	return s.sender != nil
}

// Schedule arranges a notification at fireAt and returns its handle.
func (s *timerScheduler) Schedule(ctx context.Context, itemID, title, body string, fireAt time.Time) (string, error) {
	if s.sender == nil {
		s.logger.Debug().Str("item_id", itemID).Msg("no sender configured, not scheduling")
		return "", nil
	}

	delay := time.Until(fireAt)
	if delay <= 0 {
		s.logger.Debug().Str("item_id", itemID).Msg("item already expired, not scheduling")
		return "", nil
	}

	handle := uuid.New().String()

	s.mu.Lock()
	s.timers[handle] = time.AfterFunc(delay, func() {
		s.fire(handle, itemID, title, body)
	})
	s.items[handle] = itemID
	s.mu.Unlock()

	s.logger.Debug().
		Str("item_id", itemID).
		Str("handle", handle).
		Time("fire_at", fireAt).
		Msg("notification scheduled")

	return handle, nil
}

// fire delivers a due notification and forgets its handle.
func (s *timerScheduler) fire(handle, itemID, title, body string) {
	s.mu.Lock()
	_, pending := s.timers[handle]
	delete(s.timers, handle)
	delete(s.items, handle)
	s.mu.Unlock()

	if !pending {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	data := map[string]string{"itemId": itemID}
	if err := s.sender.Send(ctx, title, body, data); err != nil {
		s.logger.Error().Err(err).Str("item_id", itemID).Msg("failed to deliver notification")
		return
	}

	s.logger.Info().Str("item_id", itemID).Msg("expiry notification delivered")
}

// Cancel drops the scheduled notification for handle.
func (s *timerScheduler) Cancel(ctx context.Context, handle string) {
	if handle == "" {
		return
	}

	s.mu.Lock()
	timer, ok := s.timers[handle]
	delete(s.timers, handle)
	delete(s.items, handle)
	s.mu.Unlock()

	if ok {
		timer.Stop()
		s.logger.Debug().Str("handle", handle).Msg("notification cancelled")
	}
}

// CancelAll drops every pending notification.
func (s *timerScheduler) CancelAll(ctx context.Context) {
	s.mu.Lock()
	count := len(s.timers)
	for handle, timer := range s.timers {
		timer.Stop()
		delete(s.timers, handle)
		delete(s.items, handle)
	}
	s.mu.Unlock()

	if count > 0 {
		s.logger.Debug().Int("count", count).Msg("all notifications cancelled")
	}
}
