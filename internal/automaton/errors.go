package automaton

import "errors"

var (
	// ErrSealed is returned by Insert once Finalize has run.
	ErrSealed = errors.New("insert into finalized trie")

	// ErrAlreadyFinalized is returned by a second call to Finalize.
	ErrAlreadyFinalized = errors.New("trie already finalized")

	// ErrNotFinalized is returned by Goto, Fail and Scan on an unsealed trie.
	ErrNotFinalized = errors.New("trie not finalized")

	// ErrInvalidState is returned when a State does not belong to the trie.
	ErrInvalidState = errors.New("state out of range")

	// ErrStateLimitExceeded is returned when the arena would outgrow State.
	ErrStateLimitExceeded = errors.New("trie state limit exceeded")
)
