// Package notify schedules expiry alerts. The scheduler keeps one in-process
// timer per handle and dispatches through a pluggable Sender (FCM in
// production, log-only when push is not configured).
package notify

import (
	"context"
	"time"
)

// Scheduler schedules and cancels expiry notifications. Handles are opaque;
// callers keep at most one live handle per inventory item.
type Scheduler interface {
	// RequestPermission reports whether notifications can be delivered at all.
	RequestPermission(ctx context.Context) bool

	// Schedule arranges a notification at fireAt and returns its handle.
	// A fireAt in the past returns an empty handle and no error: an already
	// expired item gets no alert.
	Schedule(ctx context.Context, itemID, title, body string, fireAt time.Time) (string, error)

	// Cancel drops the scheduled notification for handle, if still pending.
	Cancel(ctx context.Context, handle string)

	// CancelAll drops every pending notification.
	CancelAll(ctx context.Context)
}

// Sender delivers a notification that has come due.
type Sender interface {
	Send(ctx context.Context, title, body string, data map[string]string) error
}
