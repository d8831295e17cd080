package timer

import "time"

// Ticker schedules a cancellable periodic callback.
type Ticker interface {
	Every(interval time.Duration, fn func()) (cancel func(), err error)
}
