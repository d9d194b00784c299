package match

import "errors"

var (
	// ErrInvalidMove rejects a throw outside Rock/Paper/Scissors. State
	// is untouched.
	ErrInvalidMove = errors.New("invalid move")

	// ErrMatchConcluded rejects a round played after one side reached
	// the target wins. The caller must reset first.
	ErrMatchConcluded = errors.New("match already concluded")

	// ErrInvalidBestOf rejects a non-positive best-of value, leaving the
	// prior configuration intact.
	ErrInvalidBestOf = errors.New("best-of must be a positive integer")
)
