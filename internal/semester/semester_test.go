package semester

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOfHalfBoundaries(t *testing.T) {
	require.Equal(t, Semester{Year: 2026, Half: 1}, Of(date("2026-01-01")))
	require.Equal(t, Semester{Year: 2026, Half: 1}, Of(date("2026-06-30")))
	require.Equal(t, Semester{Year: 2026, Half: 2}, Of(date("2026-07-01")))
	require.Equal(t, Semester{Year: 2026, Half: 2}, Of(date("2026-12-31")))
}

func TestParse(t *testing.T) {
	s, err := Parse("2025-2")
	require.NoError(t, err)
	require.Equal(t, Semester{Year: 2025, Half: 2}, s)

	for _, bad := range []string{"", "2025", "2025-3", "2025-0", "abcd-1", "2025-2-1", "-1"} {
		_, err := Parse(bad)
		require.Error(t, err, "input %q", bad)
	}
}

func TestStringRoundTrip(t *testing.T) {
	s := Semester{Year: 2026, Half: 1}
	parsed, err := Parse(s.String())
	require.NoError(t, err)
	require.Equal(t, s, parsed)
}

func TestRange(t *testing.T) {
	start, end := Semester{Year: 2026, Half: 1}.Range()
	require.Equal(t, date("2026-01-01"), start)
	require.Equal(t, date("2026-06-30"), end)

	start, end = Semester{Year: 2026, Half: 2}.Range()
	require.Equal(t, date("2026-07-01"), start)
	require.Equal(t, date("2026-12-31"), end)
}

func TestContains(t *testing.T) {
	s := Semester{Year: 2026, Half: 1}
	require.True(t, s.Contains(date("2026-03-15")))
	require.True(t, s.Contains(date("2026-06-30")))
	require.False(t, s.Contains(date("2026-07-01")))
	require.False(t, s.Contains(date("2025-03-15")))
}

func TestWithMatchesDistinctAndOrdered(t *testing.T) {
	dates := []time.Time{
		date("2025-09-01"),
		date("2026-02-10"),
		date("2025-10-05"),
		date("2026-01-03"),
		{},
	}

	semesters := WithMatches(dates)
	require.Equal(t, []Semester{
		{Year: 2026, Half: 1},
		{Year: 2025, Half: 2},
	}, semesters)
}

func TestDefaultPrefersMostRecentWithMatches(t *testing.T) {
	now := date("2026-08-28")

	dates := []time.Time{date("2025-09-01"), date("2026-02-10")}
	require.Equal(t, Semester{Year: 2026, Half: 1}, Default(dates, now))

	// No matches at all: fall back to the current semester.
	require.Equal(t, Semester{Year: 2026, Half: 2}, Default(nil, now))
}

func TestResolve(t *testing.T) {
	now := date("2026-08-28")
	dates := []time.Time{
		date("2025-08-01"), date("2025-09-01"), date("2025-10-01"),
		date("2026-01-15"), date("2026-02-15"),
	}

	// Explicit selector naming a populated semester is honoured.
	require.Equal(t, Semester{Year: 2025, Half: 2}, Resolve("2025-2", dates, now))

	// Garbage and empty selectors fall back to the most recent populated
	// semester, not the current one.
	require.Equal(t, Semester{Year: 2026, Half: 1}, Resolve("", dates, now))
	require.Equal(t, Semester{Year: 2026, Half: 1}, Resolve("not-a-semester", dates, now))

	// A real semester with no matches is never selectable.
	require.Equal(t, Semester{Year: 2026, Half: 1}, Resolve("2024-1", dates, now))
}
