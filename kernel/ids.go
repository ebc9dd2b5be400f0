package kernel

// idRegistry tracks the ids of live contexts.
//
// Uniqueness only holds among contexts alive at the same time: a released id
// may be handed out again.
type idRegistry struct {
	live map[ID]struct{}
}

func (r *idRegistry) init() {
	r.live = make(map[ID]struct{})
}

// next draws ids from gen until one is nonzero and not live, and claims it.
func (r *idRegistry) next(gen func() uint64) ID {
	for {
		id := ID(gen())
		if id == 0 {
			continue
		}
		if _, ok := r.live[id]; ok {
			continue
		}
		r.live[id] = struct{}{}
		return id
	}
}

func (r *idRegistry) release(id ID) { delete(r.live, id) }

func (r *idRegistry) len() int { return len(r.live) }

func (r *idRegistry) clear() { clear(r.live) }
