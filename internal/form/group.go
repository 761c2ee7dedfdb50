package form

// GroupValidator checks a group as a whole, typically comparing members.
type GroupValidator func() Errors

// Group aggregates child controls and may carry its own cross-field rules.
// A group is valid when its own rules pass and every member is valid.
type Group struct {
	members    []member
	validators []GroupValidator
	errs       Errors
	parent     node
}

// NewGroup creates an empty group with the given cross-field rules.
func NewGroup(validators ...GroupValidator) *Group {
	return &Group{validators: validators}
}

// Add attaches members to the group. Changes in any member rerun the
// group's rules.
func (g *Group) Add(members ...member) *Group {
	for _, m := range members {
		m.attach(g)
		g.members = append(g.members, m)
	}
	g.revalidate()
	return g
}

func (g *Group) revalidate() {
	var out Errors
	for _, v := range g.validators {
		out = Merge(out, v())
	}
	g.errs = out
	if g.parent != nil {
		g.parent.revalidate()
	}
}

// Errors returns the group's own errors, not those of its members.
func (g *Group) Errors() Errors { return g.errs.Keys() }

func (g *Group) Valid() bool {
	if !g.errs.Empty() {
		return false
	}
	for _, m := range g.members {
		if !m.Valid() {
			return false
		}
	}
	return true
}

func (g *Group) Dirty() bool {
	for _, m := range g.members {
		if m.Dirty() {
			return true
		}
	}
	return false
}

func (g *Group) Pristine() bool { return !g.Dirty() }

func (g *Group) Touched() bool {
	for _, m := range g.members {
		if m.Touched() {
			return true
		}
	}
	return false
}

func (g *Group) attach(p node) { g.parent = p }
