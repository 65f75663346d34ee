package automaton

// State identifies a node in a Trie's node arena. States are dense indexes
// assigned in creation order and are never reused or moved.
type State uint32

// Root is the state spelling the empty string. Every Trie has exactly one.
const Root State = 0

// noState marks an undefined parent, fail or output link.
const noState State = ^State(0)

// Automaton is the read side of a finalized multi-pattern matcher.
//
// Properties:
//   - Deterministic: Goto yields a single successor per (state, symbol)
//   - Total: symbols with no explicit edge fall back along failure links,
//     ending at Start for a symbol no pattern begins with
//   - Immutable once finalized, so safe for concurrent readers
type Automaton[S comparable] interface {
	// Start returns the initial state.
	Start() State

	// Goto returns the state reached from state on symbol.
	Goto(state State, sym S) (State, error)

	// Fail returns the failure link of state.
	Fail(state State) (State, error)

	// IsTerminal reports whether state spells an inserted pattern.
	IsTerminal(state State) bool
}

var _ Automaton[rune] = (*Trie[rune])(nil)
