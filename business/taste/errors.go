package taste

import "errors"

var (
	// ErrInvalidAction marks a feedback request carrying an unknown action
	// kind or an out-of-range rec index. Nothing is written.
	ErrInvalidAction = errors.New("invalid feedback input")

	// ErrRunNotFound marks feedback referencing a run that does not exist or
	// belongs to another profile.
	ErrRunNotFound = errors.New("recommendation run not found")

	// ErrProfileNotFound marks a request for a profile that does not exist.
	ErrProfileNotFound = errors.New("profile not found")
)
