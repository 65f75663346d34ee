package automaton

// pending is one unit of the breadth-first finalize queue. It carries the
// parent and edge symbol alongside the child so the child's failure link can
// be resolved without any side table.
type pending[S comparable] struct {
	parent State
	sym    S
	child  State
}

// Finalize computes failure and output links for every state and seals the
// trie. It may run once; later calls return ErrAlreadyFinalized.
//
// States are resolved breadth-first, so every state shallower than the one
// being resolved already has its links. Sibling order does not matter: a
// state's link depends only on its parent's.
func (t *Trie[S]) Finalize() error {
	if t.sealed {
		return ErrAlreadyFinalized
	}

	root := &t.nodes[Root]
	root.fail = Root
	root.output = noState

	queue := make([]pending[S], 0, len(t.nodes)-1)
	queue = t.enqueueChildren(queue, Root)
	for head := 0; head < len(queue); head++ {
		p := queue[head]
		queue = t.enqueueChildren(queue, p.child)

		fail := t.resolveFail(p)
		n := &t.nodes[p.child]
		n.fail = fail
		if t.nodes[fail].terminal {
			n.output = fail
		} else {
			n.output = t.nodes[fail].output
		}
	}

	t.sealed = true
	return nil
}

func (t *Trie[S]) enqueueChildren(queue []pending[S], parent State) []pending[S] {
	for sym, child := range t.nodes[parent].children {
		queue = append(queue, pending[S]{parent: parent, sym: sym, child: child})
	}
	return queue
}

// resolveFail returns the state spelling the longest proper suffix of
// p.child's string that is also a trie path, or Root if there is none.
// Under SingleHop only the parent's own failure state is inspected.
func (t *Trie[S]) resolveFail(p pending[S]) State {
	f := t.nodes[p.parent].fail
	if t.mode == ChainWalk {
		// Each hop lands strictly shallower, so this ends at the root at worst.
		for f != Root {
			if _, ok := t.nodes[f].children[p.sym]; ok {
				break
			}
			f = t.nodes[f].fail
		}
	}
	if next, ok := t.nodes[f].children[p.sym]; ok && next != p.child {
		return next
	}
	return Root
}

// Fail returns the failure link of state.
// Fail(Root) is Root. Returns ErrNotFinalized before Finalize.
func (t *Trie[S]) Fail(state State) (State, error) {
	if !t.sealed {
		return Root, ErrNotFinalized
	}
	if !t.valid(state) {
		return Root, ErrInvalidState
	}
	return t.nodes[state].fail, nil
}
