package clock

import "time"

// Clock resolves "now". Services take one so expiry and order dates are testable.
type Clock interface {
	Now() time.Time
}

// Real is the wall clock, in UTC.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f).UTC()
}

// Expired reports whether exDate has been reached at now.
func Expired(now, exDate time.Time) bool {
	return !now.Before(exDate)
}
