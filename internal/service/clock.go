package service

import (
	"time"

	"github.com/andresuchdata/shoppos/backend-go/internal/domain"
)

// Clock decides what "today" is for the shop.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

// Current is the present instant.
func (c Clock) Current() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Today is the business day at the shop right now.
func (c Clock) Today() domain.BusinessDate {
	return domain.Today(c.Current(), c.Location)
}

// Local converts t to the shop's wall clock.
func (c Clock) Local(t time.Time) time.Time {
	if c.Location == nil {
		return t
	}
	return t.In(c.Location)
}
