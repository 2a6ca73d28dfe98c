package generic

import (
	"time"
)

// =============================================================================
// TIME POINT - Calendar day abstraction
// =============================================================================

type TimePoint struct {
	Time        time.Time
	Granularity Granularity
}

type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityMinute
)

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Granularity: GranularityDay}
}

// DayOf truncates t to its calendar day, keeping the wall-clock date.
func DayOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return DayOf(time.Now())
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	if tp.Granularity == GranularityDay {
		return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
	}
	return tp.Time
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint {
	return TimePoint{Time: tp.Time.AddDate(0, 0, n), Granularity: tp.Granularity}
}
func (tp TimePoint) AddMonths(n int) TimePoint {
	return TimePoint{Time: tp.Time.AddDate(0, n, 0), Granularity: tp.Granularity}
}
func (tp TimePoint) AddYears(n int) TimePoint {
	return TimePoint{Time: tp.Time.AddDate(n, 0, 0), Granularity: tp.Granularity}
}

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	if tp.Granularity == GranularityDay {
		return tp.Time.Format(DateLayout)
	}
	return tp.Time.Format(time.RFC3339)
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a day TimePoint.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, err
	}
	return DayOf(t), nil
}

// =============================================================================
// ELAPSED - Whole years and months between two dates
// =============================================================================

// Elapsed is a whole-years/whole-months span, used for tenure and age.
type Elapsed struct {
	Years  int
	Months int
}

// TotalMonths flattens the span into months.
func (e Elapsed) TotalMonths() int { return e.Years*12 + e.Months }

// ElapsedBetween subtracts calendar year and month, borrowing a year when the
// month difference is negative. The day of month is not considered, so an
// employee hired on March 31 has one full month of tenure on April 1.
// A start after end yields a zero span.
func ElapsedBetween(start, end TimePoint) Elapsed {
	if start.IsZero() || end.Before(start) {
		return Elapsed{}
	}
	years := end.Year() - start.Year()
	months := int(end.Month()) - int(start.Month())
	if months < 0 {
		years--
		months += 12
	}
	if years < 0 {
		return Elapsed{}
	}
	return Elapsed{Years: years, Months: months}
}

// =============================================================================
// CLOCK - Injectable "today"
// =============================================================================

// Clock supplies the current date. Calculations take a Clock so that results
// are reproducible for a fixed date.
type Clock interface {
	Today() TimePoint
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Today() TimePoint { return Today() }

// FixedClock always returns the same day.
type FixedClock TimePoint

func (c FixedClock) Today() TimePoint { return TimePoint(c) }

// =============================================================================
// HOLIDAY CALENDAR - Branch-specific holidays
// =============================================================================

// Holiday is a non-working day. Overtime worked on a holiday is credited at
// the holiday rate.
type Holiday struct {
	ID        string
	BranchID  BranchID  // empty = applies to every branch
	Date      TimePoint // the holiday date
	Name      string    // e.g., "Revolution Day", "Eid al-Fitr"
	Recurring bool      // true = same month/day every year
}

// HolidayCalendar answers holiday lookups.
type HolidayCalendar interface {
	IsHoliday(branchID BranchID, date TimePoint) bool
}

// HolidayList is a slice-backed HolidayCalendar.
type HolidayList []Holiday

func (l HolidayList) IsHoliday(branchID BranchID, date TimePoint) bool {
	for _, h := range l {
		if h.BranchID != "" && h.BranchID != branchID {
			continue
		}
		if h.Recurring {
			if h.Date.Month() == date.Month() && h.Date.Day() == date.Day() {
				return true
			}
			continue
		}
		if h.Date.Equal(date) {
			return true
		}
	}
	return false
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

// DaysBetween returns to-from in whole days.
func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}
