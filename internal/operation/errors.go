package operation

import "errors"

var (
	// ErrInvalidArity is returned when a command receives an argument count
	// outside its operation's [min, max] range.
	ErrInvalidArity = errors.New("invalid arity")

	// ErrDomain is returned when arguments violate an operation's
	// mathematical preconditions.
	ErrDomain = errors.New("domain error")
)
