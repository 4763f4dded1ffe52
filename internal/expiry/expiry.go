// Package expiry provides the date arithmetic behind leftover freshness:
// remaining days, expiry dates and the fresh/warning/expired classification.
// All functions are pure and deterministic given a reference time.
package expiry

import (
	"time"

	"fridgekeep/internal/model"
)

// Day is the granularity of all expiry arithmetic.
const Day = 24 * time.Hour

// DaysRemaining returns how many whole days are left before the item expires,
// negative once it has. Elapsed time is truncated to whole days so a partial
// day never counts as a full one.
func DaysRemaining(dateAdded time.Time, daysUntilExpiry int, now time.Time) int {
	elapsed := now.Sub(dateAdded)
	daysPassed := int(elapsed / Day)
	// Integer division truncates toward zero; floor instead so a future
	// dateAdded still rounds down.
	if elapsed < 0 && elapsed%Day != 0 {
		daysPassed--
	}
	return daysUntilExpiry - daysPassed
}

// Date returns the instant the item expires.
func Date(dateAdded time.Time, daysUntilExpiry int) time.Time {
	return dateAdded.Add(time.Duration(daysUntilExpiry) * Day)
}

// StatusFor classifies a remaining-day count. Both 0 ("expires today") and
// 1 ("one day left") are warnings; display layers distinguish them, the
// status does not.
func StatusFor(daysRemaining int) model.ExpiryStatus {
	switch {
	case daysRemaining < 0:
		return model.StatusExpired
	case daysRemaining <= 1:
		return model.StatusWarning
	default:
		return model.StatusFresh
	}
}
