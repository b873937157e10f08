package pikere

import (
	"sync"

	"github.com/coregx/pikere/nfa"
)

// searchState is the scratch of one search: VM thread lists and slot pool,
// plus the backtracker's visited vector when that engine is enabled.
type searchState struct {
	pike *nfa.PikeVMState
	bt   *nfa.BacktrackerState
}

// searchStatePool pools search scratch so that concurrent searches on one
// Regex each get their own and sequential searches reuse it.
type searchStatePool struct {
	pool sync.Pool
}

func newSearchStatePool(vm *nfa.PikeVM, bt *nfa.BoundedBacktracker) *searchStatePool {
	p := &searchStatePool{}
	p.pool = sync.Pool{
		New: func() any {
			st := &searchState{pike: vm.NewState()}
			if bt != nil {
				st.bt = bt.NewState()
			}
			return st
		},
	}
	return p
}

func (p *searchStatePool) get() *searchState {
	return p.pool.Get().(*searchState)
}

func (p *searchStatePool) put(state *searchState) {
	if state == nil {
		return
	}
	p.pool.Put(state)
}
