package simulation

import "time"

// Fixed simulation calendar. Every generator reads these instead of the wall clock.
var (
	// Today is the simulation reference date
	Today = date(2025, time.September, 15)
	// ActualsEnd is the start of the last week of demand history
	ActualsEnd = date(2025, time.August, 25)
	// AlertClock is the instant randomized alerts are dated back from
	AlertClock = time.Date(2025, time.September, 15, 9, 0, 0, 0, time.UTC)
)

const (
	// HistoryWeeks is the length of the demand history
	HistoryWeeks = 104
	// ForecastWeeks is the forecast horizon
	ForecastWeeks = 12
	// ForecastLookbackWeeks is the trailing window feeding the forecast base signal
	ForecastLookbackWeeks = 8
	// OrderLookbackWeeks is the trailing window sizing the order book
	OrderLookbackWeeks = 4
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// HistoryWeekStarts returns the week-start dates of the demand history, oldest first
func HistoryWeekStarts() []time.Time {
	start := ActualsEnd.AddDate(0, 0, -7*(HistoryWeeks-1))
	weeks := make([]time.Time, HistoryWeeks)
	for i := range weeks {
		weeks[i] = start.AddDate(0, 0, 7*i)
	}
	return weeks
}

// ForecastWeekStarts returns the forecast horizon dates, starting the week after Today
func ForecastWeekStarts() []time.Time {
	weeks := make([]time.Time, ForecastWeeks)
	for i := range weeks {
		weeks[i] = Today.AddDate(0, 0, 7*(i+1))
	}
	return weeks
}

func isoWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}
