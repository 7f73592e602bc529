package tock

import "errors"

// Compile-time and runtime error kinds. Every expression compile error
// returned by New wraps one of these sentinels, so callers can match with
// errors.Is. A timezone that cannot be loaded is reported with the error from
// time.LoadLocation instead.
var (
	// ErrWrongFieldCount is returned when an expression does not have
	// exactly six whitespace-separated fields.
	ErrWrongFieldCount = errors.New("expression must have six fields")

	// ErrIllegalCharacter is returned when a field contains a character
	// outside its allowed class.
	ErrIllegalCharacter = errors.New("illegal character in expression")

	// ErrInvalidField is returned for a structurally malformed field atom.
	ErrInvalidField = errors.New("invalid field")

	// ErrOutOfRange is returned when a value falls outside its field domain.
	ErrOutOfRange = errors.New("value out of range")

	// ErrInvalidRange is returned for a range whose bounds are not numbers
	// or names, or whose low bound exceeds its high bound.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidStep is returned for a step that is not a positive number
	// within the field domain size.
	ErrInvalidStep = errors.New("invalid step")

	// ErrUnknownAlias is returned for an @-prefixed expression that is not
	// one of the documented aliases.
	ErrUnknownAlias = errors.New("unknown alias")

	// ErrInvalidTimestamp is returned when an expression looks like an
	// ISO-8601 timestamp but does not denote a valid instant.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrIncompatibleFields names a day-of-week constraint that cannot be
	// combined with the day-of-month or month constraints of the same
	// expression. New does not return it: such expressions compile, and
	// strict day semantics (WithStrictDays) are applied when matching.
	ErrIncompatibleFields = errors.New("incompatible day fields")

	// ErrInvalidReference is returned when a reference or bound timestamp
	// given as text (the CLI's --from flag, a manifest's start_at/stop_at)
	// cannot be parsed. Schedule evaluation takes time.Time values and does
	// not return it.
	ErrInvalidReference = errors.New("invalid reference instant")

	// ErrDuplicateName is returned when a job is created with a name that
	// is already registered.
	ErrDuplicateName = errors.New("duplicate job name")
)
