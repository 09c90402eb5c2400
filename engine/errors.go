package engine

import "fmt"

// StartupError wraps a subsystem initialization failure so the caller
// can tell which backend refused to come up.
type StartupError struct {
	Subsystem string
	Err       error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup %s: %v", e.Subsystem, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}
