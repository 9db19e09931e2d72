package api

import "time"

// SetNow pins the clock used for the "tomorrow" date. Returns a restore func.
func SetNow(fn func() time.Time) func() {
	prev := now
	now = fn

	return func() { now = prev }
}
