package batch

//go:generate go tool stringer -type=Outcome -linecomment -output=outcome_string.go

// Outcome is the result of processing one row.
type Outcome int

const (
	OutcomeWritten  Outcome = iota // written
	OutcomeRejected                // rejected
	OutcomeFailed                  // failed
)
