package nlp

import "fmt"

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageAdapter  Stage = "adapter"
	StageGraphing Stage = "graphing"
)

// StageError tags an error with the stage that produced it. Network and
// decoding failures surface as StageAdapter, inconsistencies found while
// assembling the PGP as StageGraphing.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// TokenError reports a token sequence that breaks the index invariants.
type TokenError struct {
	Index  int
	Reason string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token %d: %s", e.Index, e.Reason)
}
