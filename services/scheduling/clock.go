package scheduling

import "time"

// Clock supplies "now" and the single fixed timezone all wall-clock times
// resolve against. Injected so tests can pin time.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock returns a Clock pinned to the named IANA timezone
// (e.g., "Europe/Paris"). Falls back to UTC if the name does not resolve.
func NewSystemClock(tzName string) Clock {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.UTC
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time           { return time.Now().In(c.loc) }
func (c *systemClock) Location() *time.Location { return c.loc }
