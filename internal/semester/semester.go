// Package semester buckets match dates into half-year reporting periods.
// Half 1 covers January through June, half 2 July through December. The
// serialized form is "YYYY-H", e.g. "2026-1".
package semester

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Semester identifies one half-year period.
type Semester struct {
	Year int
	Half int
}

// String returns the canonical "YYYY-H" form.
func (s Semester) String() string {
	return fmt.Sprintf("%d-%d", s.Year, s.Half)
}

// IsZero reports whether the semester is unset.
func (s Semester) IsZero() bool {
	return s.Year == 0 && s.Half == 0
}

// Parse converts a "YYYY-H" string into a Semester.
func Parse(value string) (Semester, error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 2 {
		return Semester{}, fmt.Errorf("semester: invalid format %q", value)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || year <= 0 {
		return Semester{}, fmt.Errorf("semester: invalid year %q", parts[0])
	}

	half, err := strconv.Atoi(parts[1])
	if err != nil || (half != 1 && half != 2) {
		return Semester{}, fmt.Errorf("semester: invalid half %q", parts[1])
	}

	return Semester{Year: year, Half: half}, nil
}

// Of returns the semester containing the given date.
func Of(t time.Time) Semester {
	half := 1
	if t.Month() > time.June {
		half = 2
	}
	return Semester{Year: t.Year(), Half: half}
}

// Range returns the inclusive first and last calendar days of the semester.
func (s Semester) Range() (start, end time.Time) {
	if s.Half == 1 {
		return time.Date(s.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(s.Year, time.June, 30, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(s.Year, time.July, 1, 0, 0, 0, 0, time.UTC),
		time.Date(s.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the date falls within the semester.
func (s Semester) Contains(t time.Time) bool {
	return Of(t) == s
}

// Before orders semesters chronologically.
func (s Semester) Before(other Semester) bool {
	if s.Year != other.Year {
		return s.Year < other.Year
	}
	return s.Half < other.Half
}

// WithMatches returns the distinct semesters present in the given match
// dates, most recent first. Zero dates are ignored.
func WithMatches(dates []time.Time) []Semester {
	seen := make(map[Semester]struct{}, len(dates))
	var out []Semester
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		s := Of(d)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[j].Before(out[i])
	})
	return out
}

// Default returns the most recent semester with at least one match, falling
// back to the semester containing now when no matches exist.
func Default(dates []time.Time, now time.Time) Semester {
	if semesters := WithMatches(dates); len(semesters) > 0 {
		return semesters[0]
	}
	return Of(now)
}

// Resolve validates an externally supplied semester selector against the
// match dates. The parameter is honoured only when it names a semester that
// actually has matches; anything else falls back to Default. A real but
// empty semester can therefore never be selected, even explicitly.
func Resolve(param string, dates []time.Time, now time.Time) Semester {
	requested, err := Parse(param)
	if err != nil {
		return Default(dates, now)
	}

	for _, s := range WithMatches(dates) {
		if s == requested {
			return requested
		}
	}
	return Default(dates, now)
}
