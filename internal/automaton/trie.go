package automaton

// node is one arena slot. parent, fail and output are plain indexes back
// into the arena, never owning references.
type node[S comparable] struct {
	children map[S]State // nil for leaves
	parent   State
	fail     State
	output   State // nearest terminal on the fail chain, excluding self
	edge     S     // symbol on the parent -> node edge
	depth    int
	terminal bool
}

// Trie is a prefix tree over symbols of type S that becomes an
// Aho-Corasick automaton once finalized.
//
// Build phase: Insert and Contains from a single goroutine.
// After Finalize the trie is immutable; Contains, Walk, Goto, Fail and
// Scan may then be called concurrently without synchronization.
type Trie[S comparable] struct {
	nodes  []node[S]
	sealed bool
	mode   LinkMode
}

// New creates an empty, unsealed trie holding only the root.
func New[S comparable](opts ...Option) *Trie[S] {
	o := options{mode: ChainWalk, capacity: 1}
	for _, opt := range opts {
		opt(&o)
	}
	t := &Trie[S]{
		nodes: make([]node[S], 0, o.capacity),
		mode:  o.mode,
	}
	t.nodes = append(t.nodes, node[S]{
		parent: noState,
		fail:   noState,
		output: noState,
	})
	return t
}

// Insert adds pattern to the trie. An empty pattern is a no-op.
// Re-inserting an existing pattern changes nothing.
// Returns ErrSealed once the trie has been finalized.
func (t *Trie[S]) Insert(pattern []S) error {
	if t.sealed {
		return ErrSealed
	}
	if len(pattern) == 0 {
		return nil
	}

	// Reserve all states up front so a failed insert leaves no partial path.
	if uint64(len(t.nodes))+uint64(t.missingStates(pattern)) >= uint64(noState) {
		return ErrStateLimitExceeded
	}

	cur := Root
	for _, sym := range pattern {
		next, ok := t.nodes[cur].children[sym]
		if !ok {
			next = t.addChild(cur, sym)
		}
		cur = next
	}
	t.nodes[cur].terminal = true
	return nil
}

// missingStates returns how many states Insert would create for pattern.
func (t *Trie[S]) missingStates(pattern []S) int {
	cur := Root
	for i, sym := range pattern {
		next, ok := t.nodes[cur].children[sym]
		if !ok {
			return len(pattern) - i
		}
		cur = next
	}
	return 0
}

func (t *Trie[S]) addChild(parent State, sym S) State {
	id := State(len(t.nodes))
	t.nodes = append(t.nodes, node[S]{
		parent: parent,
		fail:   noState,
		output: noState,
		edge:   sym,
		depth:  t.nodes[parent].depth + 1,
	})
	p := &t.nodes[parent]
	if p.children == nil {
		p.children = make(map[S]State)
	}
	p.children[sym] = id
	return id
}

// Walk follows word edge by edge from the root. It returns the landing state
// and true if every edge exists, or (Root, false) at the first missing edge.
// Walk never consults failure links and is legal before and after Finalize.
func (t *Trie[S]) Walk(word []S) (State, bool) {
	cur := Root
	for _, sym := range word {
		next, ok := t.nodes[cur].children[sym]
		if !ok {
			return Root, false
		}
		cur = next
	}
	return cur, true
}

// Contains reports whether word was inserted as a pattern.
func (t *Trie[S]) Contains(word []S) bool {
	s, ok := t.Walk(word)
	return ok && t.nodes[s].terminal
}

// HasPrefix reports whether word is a prefix of some inserted pattern.
// The empty word is a prefix of everything, including an empty trie.
func (t *Trie[S]) HasPrefix(word []S) bool {
	_, ok := t.Walk(word)
	return ok
}

// Start returns the root state.
func (t *Trie[S]) Start() State { return Root }

// Len returns the number of states, root included.
func (t *Trie[S]) Len() int { return len(t.nodes) }

// Sealed reports whether Finalize has completed.
func (t *Trie[S]) Sealed() bool { return t.sealed }

// Mode returns the failure-link rule this trie was built with.
func (t *Trie[S]) Mode() LinkMode { return t.mode }

// IsTerminal reports whether state spells an inserted pattern.
// Unknown states are never terminal.
func (t *Trie[S]) IsTerminal(state State) bool {
	if !t.valid(state) {
		return false
	}
	return t.nodes[state].terminal
}

// Parent returns the state one edge closer to the root. The root has none.
func (t *Trie[S]) Parent(state State) (State, bool) {
	if !t.valid(state) || state == Root {
		return Root, false
	}
	return t.nodes[state].parent, true
}

// Depth returns the length of the string spelled by state, or -1 for an
// unknown state.
func (t *Trie[S]) Depth(state State) int {
	if !t.valid(state) {
		return -1
	}
	return t.nodes[state].depth
}

// Spell reconstructs the symbols on the path from the root to state.
// It returns nil for the root and for unknown states.
func (t *Trie[S]) Spell(state State) []S {
	if !t.valid(state) || state == Root {
		return nil
	}
	out := make([]S, t.nodes[state].depth)
	for s := state; s != Root; s = t.nodes[s].parent {
		n := &t.nodes[s]
		out[n.depth-1] = n.edge
	}
	return out
}

func (t *Trie[S]) valid(state State) bool {
	return int(state) < len(t.nodes)
}
