package httperr

import "errors"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindForbidden
	KindIllegalState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindIllegalState:
		return "illegal_state"
	default:
		return "unknown"
	}
}

type BusinessError struct {
	Kind   Kind
	Code   string
	Fields map[string]string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrValidation(code string, fields map[string]string) error {
	return BusinessError{Kind: KindValidation, Code: code, Fields: fields}
}

// ErrField is a ValidationError for a single offending field.
func ErrField(code, field, reason string) error {
	return ErrValidation(code, map[string]string{field: reason})
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrForbidden(code string) error {
	return BusinessError{Kind: KindForbidden, Code: code}
}

func ErrIllegalState(code string) error {
	return BusinessError{Kind: KindIllegalState, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns 0 for errors that are not business errors.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}
