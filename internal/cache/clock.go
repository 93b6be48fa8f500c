package cache

import "time"

// clock is the time source used for entry expiry
type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
