package repositories

import "errors"

type ErrNotFound struct {
}

func (e *ErrNotFound) Error() string {
	return "not found"
}

func IsNotFound(err error) bool {
	var target *ErrNotFound
	return errors.As(err, &target)
}

type ErrProfileExists struct {
	ID string
}

func (e *ErrProfileExists) Error() string {
	return "profile " + e.ID + " already exists"
}

func IsProfileExists(err error) bool {
	var target *ErrProfileExists
	return errors.As(err, &target)
}
