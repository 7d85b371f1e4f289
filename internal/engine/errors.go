package engine

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSkill       = errors.New("unknown skill")
	ErrUnknownAchievement = errors.New("unknown achievement")
	ErrInvalidProfile     = errors.New("invalid profile key")
)

// NotFoundError reports a record id that does not exist for the profile.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
