package tock

import "math/bits"

// fieldSet holds the compiled acceptance sets for the six expression fields.
// Each set is a bitmask over the field's domain, giving O(1) membership and a
// cheap "next set bit at or above k" primitive for the advancer.
//
// Day-of-week bits are stored folded: values 0 and 7 both mean Sunday and both
// land on bit 0. Day-of-month additionally carries the lastDay flag for the L
// sentinel. Whether the day-of-month and day-of-week fields were written as a
// bare star is remembered, because the combination semantics between the two
// depend on it.
type fieldSet struct {
	second uint64 // bits 0..59
	minute uint64 // bits 0..59
	hour   uint64 // bits 0..23
	dom    uint64 // bits 1..31
	month  uint64 // bits 1..12
	dow    uint64 // bits 0..6, Sunday folded onto bit 0

	lastDay bool // L in the day-of-month field
	domStar bool
	dowStar bool
}

// nextBit returns the smallest set bit of mask that is >= from and <= max.
func nextBit(mask uint64, from, max int) (int, bool) {
	if from < 0 {
		from = 0
	}
	if from > max {
		return 0, false
	}
	m := mask >> uint(from)
	if m == 0 {
		return 0, false
	}
	v := from + bits.TrailingZeros64(m)
	if v > max {
		return 0, false
	}
	return v, true
}

// minBit returns the smallest set bit of mask within [0, max]. The mask is
// never empty after a successful compile.
func minBit(mask uint64, max int) int {
	v, _ := nextBit(mask, 0, max)
	return v
}

func (fs *fieldSet) secondMin() int { return minBit(fs.second, 59) }
func (fs *fieldSet) minuteMin() int { return minBit(fs.minute, 59) }
func (fs *fieldSet) hourMin() int   { return minBit(fs.hour, 23) }
func (fs *fieldSet) monthMin() int  { return minBit(fs.month, 12) }

// dayMatches reports whether day d of the given month satisfies the combined
// day-of-month and day-of-week constraints. last is the number of days in the
// month; wd is the weekday of the candidate day (0 = Sunday).
//
// When both day fields are constrained, legacy semantics accept a day matching
// either of them; strict semantics require both. A star field matches every
// day in both modes.
func (fs *fieldSet) dayMatches(d, last, wd int, strict bool) bool {
	domOK := fs.domStar || fs.dom&(1<<uint(d)) != 0 || (fs.lastDay && d == last)
	dowOK := fs.dowStar || fs.dow&(1<<uint(wd)) != 0
	if !strict && !fs.domStar && !fs.dowStar {
		return domOK || dowOK
	}
	return domOK && dowOK
}
