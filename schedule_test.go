package tock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, expr string, opts ...Option) *Schedule {
	t.Helper()
	s, err := New(expr, append([]Option{WithLocation(time.UTC)}, opts...)...)
	require.NoError(t, err)
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSchedule_Yearly(t *testing.T) {
	s := mustNew(t, "@yearly")
	got := s.NextN(3, time.Date(2022, 2, 17, 0, 0, 0, 0, time.UTC))
	require.Equal(t, []time.Time{
		date(2023, time.January, 1),
		date(2024, time.January, 1),
		date(2025, time.January, 1),
	}, got)
}

func TestSchedule_LastDayOfMonth(t *testing.T) {
	s := mustNew(t, "0 0 0 L * *")
	got := s.NextN(3, date(2022, time.January, 1))
	require.Equal(t, []time.Time{
		date(2022, time.January, 31),
		date(2022, time.February, 28),
		date(2022, time.March, 31),
	}, got)
}

func TestSchedule_LastDayCombinedWithExplicit(t *testing.T) {
	s := mustNew(t, "0 0 0 15,L * *")
	got := s.NextN(4, date(2022, time.January, 1))
	require.Equal(t, []time.Time{
		date(2022, time.January, 15),
		date(2022, time.January, 31),
		date(2022, time.February, 15),
		date(2022, time.February, 28),
	}, got)
}

func TestSchedule_LeapYearLastDay(t *testing.T) {
	s := mustNew(t, "0 0 0 L 2 *")
	got := s.NextN(2, date(2023, time.March, 1))
	require.Equal(t, []time.Time{
		date(2024, time.February, 29),
		date(2025, time.February, 28),
	}, got)
}

func TestSchedule_Unsatisfiable(t *testing.T) {
	s := mustNew(t, "* * * 31 2 *")
	_, ok := s.Next(date(2022, time.January, 1))
	require.False(t, ok)
	require.Empty(t, s.NextN(3, date(2022, time.January, 1)))
}

func TestSchedule_DayCombination(t *testing.T) {
	from := time.Date(2021, 10, 13, 0, 0, 0, 0, time.UTC)

	// 1 November that is also a Thursday.
	strict := mustNew(t, "0 0 0 1 11 4", WithStrictDays())
	next, ok := strict.Next(from)
	require.True(t, ok)
	require.Equal(t, date(2029, time.November, 1), next)
	require.Equal(t, time.Thursday, next.Weekday())

	// Legacy semantics: 1 November or any November Thursday.
	legacy := mustNew(t, "0 0 0 1 11 4")
	next, ok = legacy.Next(from)
	require.True(t, ok)
	require.Equal(t, date(2021, time.November, 1), next)
}

func TestSchedule_LeapDaySaturday(t *testing.T) {
	s := mustNew(t, "0 0 0 29 FEB SAT", WithStrictDays())
	next, ok := s.Next(time.Date(2021, 10, 13, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	require.Equal(t, date(2048, time.February, 29), next)
	require.Equal(t, time.Saturday, next.Weekday())
}

func TestSchedule_DailyYearSweep(t *testing.T) {
	s := mustNew(t, "0 0 0 * * *")
	from := time.Date(2022, 3, 1, 10, 30, 0, 0, time.UTC)

	cur := from
	for n := 0; n < 365; n++ {
		next, ok := s.Next(cur)
		require.True(t, ok)
		cur = next
	}
	require.Equal(t, date(2023, time.March, 1), cur)
	require.Equal(t, from.AddDate(0, 0, 365).Truncate(24*time.Hour), cur)
}

func TestSchedule_NextIsStrictlyAfter(t *testing.T) {
	s := mustNew(t, "* * * * * *")
	from := time.Date(2022, 5, 5, 12, 0, 0, 0, time.UTC)

	next, ok := s.Next(from)
	require.True(t, ok)
	require.Equal(t, from.Add(time.Second), next)

	// Sub-second references round up to the next whole second.
	next, ok = s.Next(from.Add(500 * time.Millisecond))
	require.True(t, ok)
	require.Equal(t, from.Add(time.Second), next)
}

func TestSchedule_NextNIncreasing(t *testing.T) {
	s := mustNew(t, "*/7 */3 * * * *")
	got := s.NextN(50, date(2022, time.June, 15))
	require.Len(t, got, 50)
	for i := 1; i < len(got); i++ {
		require.True(t, got[i].After(got[i-1]), "sequence must be strictly increasing")
	}
}

func TestSchedule_UntilNext(t *testing.T) {
	s := mustNew(t, "0 0 12 * * *")
	from := time.Date(2022, 8, 1, 9, 0, 0, 0, time.UTC)

	d, ok := s.UntilNext(from)
	require.True(t, ok)

	next, _ := s.Next(from)
	require.Equal(t, next.Sub(from), d)
	require.Equal(t, 3*time.Hour, d)
}

func TestSchedule_StartAt(t *testing.T) {
	start := date(2023, time.January, 1)
	s := mustNew(t, "0 0 0 * * *", WithStartAt(start))

	// References before the window clamp up; the boundary itself is
	// emittable.
	next, ok := s.Next(date(2022, time.June, 1))
	require.True(t, ok)
	require.Equal(t, start, next)

	// References inside the window are unaffected.
	next, ok = s.Next(date(2023, time.February, 1))
	require.True(t, ok)
	require.Equal(t, date(2023, time.February, 2), next)
}

func TestSchedule_StopAt(t *testing.T) {
	stop := date(2022, time.January, 3)
	s := mustNew(t, "0 0 0 * * *", WithStopAt(stop))

	got := s.NextN(10, date(2022, time.January, 1))
	require.Equal(t, []time.Time{
		date(2022, time.January, 2),
		date(2022, time.January, 3),
	}, got)
}

func TestSchedule_MaxRunsZeroNeverFires(t *testing.T) {
	s := mustNew(t, "* * * * * *", WithMaxRuns(0))
	_, ok := s.Next(date(2022, time.January, 1))
	require.False(t, ok)
}

func TestSchedule_OneShotFromInstant(t *testing.T) {
	at := time.Date(2030, 4, 1, 8, 30, 0, 0, time.UTC)
	s := At(at, WithLocation(time.UTC))

	for _, n := range []int{1, 3, 10} {
		got := s.NextN(n, date(2022, time.January, 1))
		require.Equal(t, []time.Time{at}, got, "NextN(%d) must yield exactly one instant", n)
	}

	_, ok := s.Next(at.Add(time.Second))
	require.False(t, ok)
}

func TestSchedule_Timezone(t *testing.T) {
	s, err := New("0 0 9 * * *", WithTimezone("America/New_York"))
	require.NoError(t, err)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	next, ok := s.Next(time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	require.Equal(t, time.Date(2022, 7, 1, 9, 0, 0, 0, loc), next.In(loc))
}

func TestSchedule_UnknownTimezone(t *testing.T) {
	_, err := New("* * * * * *", WithTimezone("Not/AZone"))
	require.Error(t, err)
}

func TestBrokenTime_RoundTrip(t *testing.T) {
	instants := []time.Time{
		time.Date(2022, 3, 13, 14, 30, 45, 0, time.UTC),
		time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
		time.Date(1999, 12, 31, 0, 0, 0, 500*int(time.Millisecond), time.UTC),
	}
	for _, want := range instants {
		bt := newBrokenTime(want, time.UTC)
		require.Equal(t, want, bt.time(time.UTC))
	}
}

func TestDaysInMonth(t *testing.T) {
	require.Equal(t, 31, daysInMonth(2022, 0))
	require.Equal(t, 28, daysInMonth(2022, 1))
	require.Equal(t, 29, daysInMonth(2024, 1))
	require.Equal(t, 28, daysInMonth(2100, 1)) // century, not leap
	require.Equal(t, 29, daysInMonth(2000, 1)) // quadricentennial, leap
	require.Equal(t, 30, daysInMonth(2022, 10))
	require.Equal(t, 31, daysInMonth(2022, 11))
}
