// Package refresh decides which data sources must be refetched after a
// completed mutation, so views invalidate exactly what a mutation could
// have changed and nothing more.
package refresh

// Mutation is a completed write against the paste API.
type Mutation int

const (
	Create Mutation = iota
	Update
	Delete
)

func (m Mutation) String() string {
	switch m {
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	}
	return "unknown"
}

// Scope names the data sources a view must refetch.
type Scope struct {
	List      bool
	Stats     bool
	Languages bool
}

// None reports whether no refetch is needed.
func (s Scope) None() bool { return !s.List && !s.Stats && !s.Languages }

// Union merges two scopes.
func (s Scope) Union(o Scope) Scope {
	return Scope{
		List:      s.List || o.List,
		Stats:     s.Stats || o.Stats,
		Languages: s.Languages || o.Languages,
	}
}

// Pending accumulates the refetch scope of mutations completed while the
// listing view is off screen, until that view consumes it on entry. The
// event loop is the only writer and reader, so there is no locking.
type Pending struct {
	scope Scope
}

// Record folds a completed mutation's scope into the pending set.
func (p *Pending) Record(m Mutation) {
	p.scope = p.scope.Union(ScopeFor(m))
}

// Consume returns the accumulated scope and clears it.
func (p *Pending) Consume() Scope {
	s := p.scope
	p.scope = Scope{}
	return s
}

// ScopeFor returns the refetch scope for a completed mutation.
//
// Create touches counts and may introduce a language tag the facet list has
// never seen. Delete shifts counts and pagination, so the list and stats are
// refetched in full rather than trusting the optimistic local removal; the
// facet list stays, since removing a paste cannot add a tag. Update changes
// neither counts nor membership, and the subsequent navigation to the detail
// view shows fresh content anyway.
func ScopeFor(m Mutation) Scope {
	switch m {
	case Create:
		return Scope{List: true, Stats: true, Languages: true}
	case Delete:
		return Scope{List: true, Stats: true}
	default:
		return Scope{}
	}
}
