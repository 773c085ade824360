package tracker

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when outstanding acknowledgements did not settle in time.
var ErrTimeout = errors.New("timed out waiting for outstanding events")

// TimeoutError reports the counters last seen before the settlement wait gave up.
// It matches ErrTimeout with errors.Is.
type TimeoutError struct {
	Subscribe   int
	Unsubscribe int
	Waited      time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s after %s: there are %d outstanding subscribe events and %d outstanding unsubscribe events",
		ErrTimeout, e.Waited, e.Subscribe, e.Unsubscribe)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
