package twig

// Context maps variable names to the values a template renders with.
// Rendering never modifies it.
type Context map[string]interface{}

// scope holds the variables bound while rendering: set targets and loop
// variables. Lookups walk outward to the caller's Context.
type scope struct {
	vars   map[string]interface{}
	parent *scope
	ctx    Context
}

func newScope(ctx Context) *scope {
	return &scope{ctx: ctx}
}

func (s *scope) child() *scope {
	return &scope{parent: s, ctx: s.ctx}
}

func (s *scope) lookup(name string) (interface{}, bool) {
	for c := s; c != nil; c = c.parent {
		if v, ok := c.vars[name]; ok {
			return v, true
		}
	}
	v, ok := s.ctx[name]
	return v, ok
}

func (s *scope) set(name string, value interface{}) {
	if s.vars == nil {
		s.vars = make(map[string]interface{})
	}
	s.vars[name] = value
}
