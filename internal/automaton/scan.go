package automaton

import "iter"

// Match is one pattern occurrence reported by Scan.
type Match struct {
	// End is the index of the last symbol of the occurrence in the text.
	End int
	// State is the terminal state whose string ended at End.
	State State
}

// Goto returns the state reached from state on sym. Missing edges fall back
// along failure links; the root loops to itself on any symbol it lacks.
func (t *Trie[S]) Goto(state State, sym S) (State, error) {
	if !t.sealed {
		return Root, ErrNotFinalized
	}
	if !t.valid(state) {
		return Root, ErrInvalidState
	}
	return t.step(state, sym), nil
}

func (t *Trie[S]) step(state State, sym S) State {
	for {
		if next, ok := t.nodes[state].children[sym]; ok {
			return next
		}
		if state == Root {
			return Root
		}
		state = t.nodes[state].fail
	}
}

// Scan returns every pattern occurrence in text, in nondecreasing End order.
// Occurrences sharing an end position are reported longest first.
//
// The returned sequence is lazy and may be ranged over any number of times;
// each iteration restarts from the beginning of text. Work per iteration is
// proportional to len(text) plus the number of matches yielded.
func (t *Trie[S]) Scan(text []S) (iter.Seq[Match], error) {
	if !t.sealed {
		return nil, ErrNotFinalized
	}
	return func(yield func(Match) bool) {
		state := Root
		for i, sym := range text {
			state = t.step(state, sym)
			s := state
			if !t.nodes[s].terminal {
				s = t.nodes[s].output
			}
			for s != noState {
				if !yield(Match{End: i, State: s}) {
					return
				}
				s = t.nodes[s].output
			}
		}
	}, nil
}

// ScanAll collects the result of Scan into a slice.
func (t *Trie[S]) ScanAll(text []S) ([]Match, error) {
	seq, err := t.Scan(text)
	if err != nil {
		return nil, err
	}
	var matches []Match
	for m := range seq {
		matches = append(matches, m)
	}
	return matches, nil
}
