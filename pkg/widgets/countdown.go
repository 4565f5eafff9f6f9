package widgets

import (
	"fmt"
	"time"
)

// Remaining is the time left until the end of the day
type Remaining struct {
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
	Seconds string `json:"seconds"`
}

// String renders the countdown as "HH : MM : SS"
func (r Remaining) String() string {
	return r.Hours + " : " + r.Minutes + " : " + r.Seconds
}

// Countdown returns the zero-padded hours, minutes and seconds left in the
// day of now
func Countdown(now time.Time) Remaining {
	return Remaining{
		Hours:   fmt.Sprintf("%02d", 23-now.Hour()),
		Minutes: fmt.Sprintf("%02d", 59-now.Minute()),
		Seconds: fmt.Sprintf("%02d", 59-now.Second()),
	}
}
