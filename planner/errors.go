package planner

// ValidationError reports a missing or invalid required field. The operation
// that produced it performed no mutation.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string { return e.Reason }
