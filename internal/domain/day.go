package domain

import "time"

// Day represents a calendar day with the number of cards due on it
type Day struct {
	Date      time.Time `json:"date" yaml:"date"`
	CardCount int       `json:"cardCount" yaml:"cardCount"`
}

// DateString returns date in YYYYMMDD format
func (d Day) DateString() string {
	return d.Date.Format("20060102")
}

// DisplayString returns user-friendly date string
func (d Day) DisplayString() string {
	return d.displayAt(time.Now())
}

func (d Day) displayAt(now time.Time) string {
	date := d.Date

	if sameDay(date, now) {
		return "Today"
	}

	if sameDay(date, now.AddDate(0, 0, 1)) {
		return "Tomorrow"
	}

	return date.Format("Mon 2 Jan 2006")
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
