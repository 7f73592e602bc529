package tock

// maxYearSpan bounds the advancer's search horizon. Patterns that pin a leap
// day to a weekday can legitimately skip 27 years between occurrences, so the
// horizon is generous, but an unsatisfiable combination (Feb 31) must give up
// rather than loop.
const maxYearSpan = 30

// advance mutates bt to the smallest instant strictly after it that fs
// accepts, returning false when no such instant exists within the search
// horizon.
//
// The fields form a cascade from finest to coarsest: second, minute, hour,
// day, month, with the year unbounded upward until the horizon. Each pass
// aligns every field to the smallest acceptable value at or above its current
// one; whenever a field moves, all finer fields reset to their set minima, and
// whenever a field overflows, the next coarser field is bumped and the pass
// restarts.
func (fs *fieldSet) advance(bt *brokenTime, strict bool) bool {
	bt.ms = 0
	bt.second++
	horizon := bt.year + maxYearSpan

	for bt.year <= horizon {
		// Seconds. Nothing finer to reset.
		if v, ok := nextBit(fs.second, bt.second, 59); ok {
			bt.second = v
		} else {
			bt.second = fs.secondMin()
			bt.minute++
		}

		// Minutes.
		if v, ok := nextBit(fs.minute, bt.minute, 59); ok {
			if v > bt.minute {
				bt.minute = v
				bt.second = fs.secondMin()
			}
		} else {
			bt.minute = fs.minuteMin()
			bt.second = fs.secondMin()
			bt.hour++
		}

		// Hours.
		if v, ok := nextBit(fs.hour, bt.hour, 23); ok {
			if v > bt.hour {
				bt.hour = v
				bt.minute = fs.minuteMin()
				bt.second = fs.secondMin()
			}
		} else {
			bt.hour = fs.hourMin()
			bt.minute = fs.minuteMin()
			bt.second = fs.secondMin()
			bt.day++
		}

		// Day, folding in the last-day sentinel and the day-of-week
		// combination semantics.
		if d, ok := fs.nextDay(bt, strict); ok {
			if d > bt.day {
				bt.day = d
				fs.resetClock(bt)
			}
		} else {
			bt.day = 1
			fs.resetClock(bt)
			bt.month++
			if bt.month > 11 {
				bt.month = 0
				bt.year++
			}
			continue
		}

		// Month. Any movement invalidates the day found above.
		if m, ok := nextBit(fs.month, bt.month+1, 12); ok {
			if m-1 > bt.month {
				bt.month = m - 1
				bt.day = 1
				fs.resetClock(bt)
				continue
			}
		} else {
			bt.year++
			bt.month = fs.monthMin() - 1
			bt.day = 1
			fs.resetClock(bt)
			continue
		}

		return true
	}
	return false
}

// nextDay finds the smallest acceptable day of bt's month at or above bt.day.
func (fs *fieldSet) nextDay(bt *brokenTime, strict bool) (int, bool) {
	last := daysInMonth(bt.year, bt.month)
	for d := bt.day; d <= last; d++ {
		if fs.dayMatches(d, last, weekdayOf(bt.year, bt.month, d), strict) {
			return d, true
		}
	}
	return 0, false
}

func (fs *fieldSet) resetClock(bt *brokenTime) {
	bt.hour = fs.hourMin()
	bt.minute = fs.minuteMin()
	bt.second = fs.secondMin()
}
