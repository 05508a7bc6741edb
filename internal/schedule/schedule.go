// Package schedule decides whether the store is currently taking orders.
// Hours are naive wall-clock integers, no timezone handling; the open window
// may wrap past midnight.
package schedule

import "time"

// Hours is the configured daily open/close pair.
//
// Window semantics: Open == Close means always open; Open < Close means
// [Open, Close); Open > Close wraps midnight, [Open, 24) plus [0, Close).
type Hours struct {
	Open  int `json:"open"`
	Close int `json:"close"`
}

// DefaultHours is the fallback window used when the configured bounds are
// out of range (6pm to 2am).
var DefaultHours = Hours{Open: 18, Close: 2}

// Normalize returns h, or DefaultHours when either bound is outside [0, 23].
func (h Hours) Normalize() Hours {
	if h.Open < 0 || h.Open > 23 || h.Close < 0 || h.Close > 23 {
		return DefaultHours
	}
	return h
}

// IsOpenAt reports whether the store is open at the given wall-clock hour.
// Callers are expected to pass an hour already in [0, 23].
func (h Hours) IsOpenAt(hour int) bool {
	hrs := h.Normalize()
	if hrs.Open == hrs.Close {
		return true
	}
	if hrs.Open < hrs.Close {
		return hour >= hrs.Open && hour < hrs.Close
	}
	return hour >= hrs.Open || hour < hrs.Close
}

// UntilOpen returns the whole hours left until the store reopens, 0 when it
// is already open. The wait is the ceiling of the gap to the next Open:00
// instant, floored at 1: a few minutes before opening still reads as
// "1 hour", never "0 hours".
func (h Hours) UntilOpen(now time.Time) int {
	hrs := h.Normalize()
	if hrs.IsOpenAt(now.Hour()) {
		return 0
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hrs.Open, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	diff := next.Sub(now)
	wait := int((diff + time.Hour - 1) / time.Hour)
	if wait < 1 {
		wait = 1
	}
	return wait
}

// Status is the display snapshot consumed by the storefront and checkout.
type Status struct {
	OpenNow     bool `json:"open_now"`
	OpenHour    int  `json:"open_hour"`
	CloseHour   int  `json:"close_hour"`
	HoursToOpen int  `json:"hours_to_open"`
}

func (h Hours) StatusAt(now time.Time) Status {
	hrs := h.Normalize()
	return Status{
		OpenNow:     hrs.IsOpenAt(now.Hour()),
		OpenHour:    hrs.Open,
		CloseHour:   hrs.Close,
		HoursToOpen: hrs.UntilOpen(now),
	}
}
