package tock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// bounds describes a field's numeric domain plus its accepted value names.
type bounds struct {
	name     string
	min, max int
	names    map[string]int
}

var (
	secondBounds = bounds{"second", 0, 59, nil}
	minuteBounds = bounds{"minute", 0, 59, nil}
	hourBounds   = bounds{"hour", 0, 23, nil}
	domBounds    = bounds{"day-of-month", 1, 31, nil}
	monthBounds  = bounds{"month", 1, 12, map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}}
	dowBounds = bounds{"day-of-week", 0, 7, map[string]int{
		"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
	}}
)

// aliases are expanded before field parsing. Any other @name is an error.
var aliases = map[string]string{
	"@yearly":   "0 0 0 1 1 *",
	"@annually": "0 0 0 1 1 *",
	"@monthly":  "0 0 0 1 * *",
	"@weekly":   "0 0 0 * * 0",
	"@daily":    "0 0 0 * * *",
	"@hourly":   "0 0 * * * *",
}

// compiled is the output of the pattern compiler: either a field set or a
// one-shot fixed instant.
type compiled struct {
	fields *fieldSet
	once   time.Time
	isOnce bool
}

// compile parses an expression into its acceptance representation. The
// location is used to anchor ISO-8601 one-shot literals without an explicit
// UTC marker.
func compile(expr string, loc *time.Location) (*compiled, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrWrongFieldCount)
	}

	if strings.HasPrefix(trimmed, "@") {
		expanded, ok := aliases[strings.ToLower(trimmed)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAlias, trimmed)
		}
		trimmed = expanded
	}

	if looksLikeTimestamp(trimmed) {
		at, err := parseTimestamp(trimmed, loc)
		if err != nil {
			return nil, err
		}
		return &compiled{once: at, isOnce: true}, nil
	}

	fields := strings.Fields(trimmed)
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: got %d", ErrWrongFieldCount, len(fields))
	}

	fs := &fieldSet{}
	specs := []struct {
		raw    string
		b      bounds
		mask   *uint64
		star   *bool
		allowL bool
	}{
		{fields[0], secondBounds, &fs.second, nil, false},
		{fields[1], minuteBounds, &fs.minute, nil, false},
		{fields[2], hourBounds, &fs.hour, nil, false},
		{fields[3], domBounds, &fs.dom, &fs.domStar, true},
		{fields[4], monthBounds, &fs.month, nil, false},
		{fields[5], dowBounds, &fs.dow, &fs.dowStar, false},
	}

	for _, spec := range specs {
		star, err := parseField(spec.raw, spec.b, spec.mask, spec.allowL, &fs.lastDay)
		if err != nil {
			return nil, fmt.Errorf("%s field %q: %w", spec.b.name, spec.raw, err)
		}
		if spec.star != nil {
			*spec.star = star
		}
	}

	// Both 0 and 7 mean Sunday; fold bit 7 onto bit 0.
	if fs.dow&(1<<7) != 0 {
		fs.dow = (fs.dow | 1) &^ (1 << 7)
	}

	return &compiled{fields: fs}, nil
}

// parseField parses one comma-separated field into its bitmask. It reports
// whether the field was a bare star.
func parseField(raw string, b bounds, mask *uint64, allowL bool, lastDay *bool) (bool, error) {
	if err := checkCharacters(raw, b, allowL); err != nil {
		return false, err
	}

	star := raw == "*"
	for _, atom := range strings.Split(raw, ",") {
		if atom == "" {
			return false, fmt.Errorf("%w: empty atom", ErrInvalidField)
		}
		if allowL && strings.EqualFold(atom, "l") {
			*lastDay = true
			continue
		}
		if err := parseAtom(atom, b, mask); err != nil {
			return false, err
		}
	}
	return star, nil
}

// parseAtom handles a single atom: *, N, N-M, or */S.
func parseAtom(atom string, b bounds, mask *uint64) error {
	switch {
	case atom == "*":
		setRange(mask, b.min, b.max, 1)
		return nil

	case strings.HasPrefix(atom, "*/"):
		step, err := strconv.Atoi(atom[2:])
		if err != nil || step < 1 || step > b.max-b.min+1 {
			return fmt.Errorf("%w: %q", ErrInvalidStep, atom)
		}
		setRange(mask, b.min, b.max, step)
		return nil

	case strings.Contains(atom, "/"):
		// Steps attach only to the star form.
		return fmt.Errorf("%w: step requires *: %q", ErrInvalidStep, atom)

	case strings.Contains(atom, "-"):
		lo, hi, ok := strings.Cut(atom, "-")
		if !ok || strings.Contains(hi, "-") {
			return fmt.Errorf("%w: %q", ErrInvalidRange, atom)
		}
		from, err := parseValue(lo, b)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidRange, atom)
		}
		to, err := parseValue(hi, b)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidRange, atom)
		}
		if from > to {
			return fmt.Errorf("%w: %d > %d", ErrInvalidRange, from, to)
		}
		if from < b.min || to > b.max {
			return fmt.Errorf("%w: %q outside %d-%d", ErrOutOfRange, atom, b.min, b.max)
		}
		setRange(mask, from, to, 1)
		return nil

	default:
		v, err := parseValue(atom, b)
		if err != nil {
			return err
		}
		if v < b.min || v > b.max {
			return fmt.Errorf("%w: %d outside %d-%d", ErrOutOfRange, v, b.min, b.max)
		}
		*mask |= 1 << uint(v)
		return nil
	}
}

// parseValue resolves a number or a field-specific name to its value. Range
// checking is the caller's concern; name values are within bounds already.
func parseValue(s string, b bounds) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	if v, ok := b.names[strings.ToLower(s)]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidField, s)
}

func setRange(mask *uint64, from, to, step int) {
	for v := from; v <= to; v += step {
		*mask |= 1 << uint(v)
	}
}

// checkCharacters enforces the per-field character class. Fields with named
// values admit letters (validated against the name table later); the
// day-of-month field admits L; everything else is digits and , - * /.
func checkCharacters(raw string, b bounds, allowL bool) error {
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '-', r == '*', r == '/':
		case allowL && (r == 'L' || r == 'l'):
		case b.names != nil && ((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')):
		default:
			return fmt.Errorf("%w: %q", ErrIllegalCharacter, r)
		}
	}
	return nil
}

// looksLikeTimestamp reports whether the expression is shaped like an
// ISO-8601 date or datetime. Six-field expressions always contain spaces, so
// a space-free token starting with a four-digit year is unambiguous.
func looksLikeTimestamp(s string) bool {
	if len(s) < 10 || strings.ContainsAny(s, " \t") {
		return false
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s[4] == '-' && s[7] == '-'
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseTimestamp parses an ISO-8601 local-or-UTC literal. A trailing Z pins
// the instant to UTC; otherwise it is interpreted in loc.
func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	raw, utc := strings.CutSuffix(s, "Z")
	parseLoc := loc
	if utc {
		parseLoc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, parseLoc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}
