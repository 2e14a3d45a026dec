package constraint

import "errors"

var (
	// ErrInvalidAssignment is returned when assigning a value that is no
	// longer in the variable's domain.
	ErrInvalidAssignment = errors.New("value not in domain")

	// ErrUnknownVariable is returned when referencing a variable that was
	// never added to the system.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrUnknownValue is returned when referencing a value outside the
	// system's value table.
	ErrUnknownValue = errors.New("unknown value")

	// ErrUnknownPredicate is returned when a binary constraint references a
	// predicate name absent from the registry.
	ErrUnknownPredicate = errors.New("unknown predicate")

	// ErrSystemFrozen is returned when adding variables or constraints to a
	// system after a state was created from it.
	ErrSystemFrozen = errors.New("system is frozen")
)
