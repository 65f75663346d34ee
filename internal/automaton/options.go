package automaton

import "fmt"

// LinkMode selects how Finalize resolves failure links.
type LinkMode int

const (
	// ChainWalk follows the parent's failure chain until a state with a
	// matching edge (or the root) is found. This yields the longest proper
	// suffix that is also a trie path.
	ChainWalk LinkMode = iota

	// SingleHop inspects only the parent's failure state and falls back to
	// the root on a miss. It under-links once patterns overlap at several
	// depths and exists for parity with older pattern tables.
	SingleHop
)

func (m LinkMode) String() string {
	switch m {
	case ChainWalk:
		return "chain-walk"
	case SingleHop:
		return "single-hop"
	default:
		return fmt.Sprintf("LinkMode(%d)", int(m))
	}
}

// ParseLinkMode maps a configuration string onto a LinkMode.
// The empty string selects ChainWalk.
func ParseLinkMode(s string) (LinkMode, error) {
	switch s {
	case "", "chain-walk":
		return ChainWalk, nil
	case "single-hop":
		return SingleHop, nil
	default:
		return ChainWalk, fmt.Errorf("unknown link mode: %q", s)
	}
}

type options struct {
	mode     LinkMode
	capacity int
}

// Option configures a Trie.
type Option func(*options)

// WithLinkMode sets the failure-link construction rule. Default: ChainWalk.
func WithLinkMode(m LinkMode) Option {
	return func(o *options) { o.mode = m }
}

// WithCapacity preallocates room for n states.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}
