package practice

import "time"

// clockTickMsg re-renders the running clock.
type clockTickMsg time.Time
