package observable

import "errors"

// ErrNilTarget is returned when wrapping a nil pointer.
var ErrNilTarget = errors.New("nil target")

// ErrUnsupportedTarget is returned when the wrapped value is not a pointer
// to a struct.
var ErrUnsupportedTarget = errors.New("target must be a pointer to a struct")

// ErrTargetReclaimed is returned by writes through a wrapper whose target
// has already been garbage collected.
var ErrTargetReclaimed = errors.New("target has been reclaimed")

// ErrUnexportedField is returned when setting a struct field that exists
// but cannot be written from outside its package.
var ErrUnexportedField = errors.New("cannot set unexported field")

// ErrIncompatibleType is returned when the assigned value cannot be stored
// in the target field.
var ErrIncompatibleType = errors.New("incompatible value type")
