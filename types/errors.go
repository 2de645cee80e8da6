package types

import "errors"

var (
	// ErrInvalidArgument is returned when a required argument is absent
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPreconditionViolation is returned when the shape of an argument
	// does not match what the operation requires
	ErrPreconditionViolation = errors.New("precondition violation")
	// ErrOutOfOrder is returned when an agent receives a return
	// without having acted first
	ErrOutOfOrder = errors.New("call out of order")
)
