// Package daterange turns declarative range requests into concrete
// ordered lists of calendar dates. All arithmetic is calendar-correct
// across month and year boundaries; last days of months are computed via
// day zero of the following month.
package daterange

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Preset names a range computed relative to "now" at resolution time.
type Preset string

const (
	PresetToday          Preset = "today"
	PresetTomorrow       Preset = "tomorrow"
	PresetCurrentMonth   Preset = "current-month"
	PresetNextMonth      Preset = "next-month"
	PresetCurrentQuarter Preset = "current-quarter"
	PresetNextQuarter    Preset = "next-quarter"
)

var (
	// ErrInvalidRange is returned when a custom range ends before it starts.
	ErrInvalidRange = errors.New("range end before start")
	// ErrUnknownPreset is returned for a preset name outside the vocabulary.
	ErrUnknownPreset = errors.New("unknown preset range")
)

// MonthDates is one month of a multi-month resolution: the month key and
// its full ordered date list. Each month renders as its own table; the
// lists are never merged into one axis.
type MonthDates struct {
	Key   string // YYYY-MM
	Dates []time.Time
}

func midnight(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// daysBetween returns every calendar day from start to end inclusive.
func daysBetween(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// ResolvePreset computes the preset's boundaries against the supplied now
// and returns the inclusive date list.
func ResolvePreset(preset Preset, now time.Time) ([]time.Time, error) {
	loc := now.Location()
	year, month, day := now.Date()

	var start, end time.Time
	switch preset {
	case PresetToday:
		start = midnight(year, month, day, loc)
		end = start
	case PresetTomorrow:
		start = midnight(year, month, day, loc).AddDate(0, 0, 1)
		end = start
	case PresetCurrentMonth:
		start = midnight(year, month, 1, loc)
		end = midnight(year, month+1, 0, loc)
	case PresetNextMonth:
		start = midnight(year, month+1, 1, loc)
		end = midnight(year, month+2, 0, loc)
	case PresetCurrentQuarter:
		qs := month - (month-1)%3
		start = midnight(year, qs, 1, loc)
		end = midnight(year, qs+3, 0, loc)
	case PresetNextQuarter:
		qs := month - (month-1)%3 + 3
		start = midnight(year, qs, 1, loc)
		end = midnight(year, qs+3, 0, loc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}

	return daysBetween(start, end), nil
}

// ResolveCustom returns every calendar day from start to end inclusive.
// Times of day are ignored; only the calendar dates matter.
func ResolveCustom(start, end time.Time) ([]time.Time, error) {
	s := midnight(start.Year(), start.Month(), start.Day(), start.Location())
	e := midnight(end.Year(), end.Month(), end.Day(), end.Location())
	if e.Before(s) {
		return nil, ErrInvalidRange
	}
	return daysBetween(s, e), nil
}

// ResolveMonths resolves a set of "YYYY-MM" month keys into one date list
// per month, months sorted chronologically. Key order and duplicates in
// the input are insignificant.
func ResolveMonths(keys []string) ([]MonthDates, error) {
	type ym struct {
		year  int
		month time.Month
	}

	set := make(map[ym]bool)
	for _, key := range keys {
		var year, month int
		if _, err := fmt.Sscanf(key, "%4d-%2d", &year, &month); err != nil || month < 1 || month > 12 {
			return nil, fmt.Errorf("invalid month key %q", key)
		}
		set[ym{year, time.Month(month)}] = true
	}

	months := make([]ym, 0, len(set))
	for m := range set {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].year != months[j].year {
			return months[i].year < months[j].year
		}
		return months[i].month < months[j].month
	})

	out := make([]MonthDates, 0, len(months))
	for _, m := range months {
		start := midnight(m.year, m.month, 1, time.UTC)
		end := midnight(m.year, m.month+1, 0, time.UTC)
		out = append(out, MonthDates{
			Key:   fmt.Sprintf("%04d-%02d", m.year, m.month),
			Dates: daysBetween(start, end),
		})
	}
	return out, nil
}
