package analysis

import "fmt"

// MissingInputError reports that a required upstream artifact is absent.
// The stage fails closed; the caller decides whether the rest of the
// pipeline may proceed without its output.
type MissingInputError struct {
	Artifact string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("required input missing: %s", e.Artifact)
}
