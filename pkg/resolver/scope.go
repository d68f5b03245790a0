package resolver

// binding tracks whether a local name may be read yet.
type binding uint8

const (
	bindingDeclared binding = iota
	bindingDefined
)

// scope is one lexical block. The global scope is represented by a nil
// *scope and never records names.
type scope struct {
	parent *scope
	names  map[string]binding
}

func newScope(parent *scope) *scope {
	return &scope{
		parent: parent,
		names:  make(map[string]binding),
	}
}

func (s *scope) get(name string) (binding, bool) {
	if s == nil {
		return 0, false
	}

	b, ok := s.names[name]
	return b, ok
}

// put records name in s, reporting whether it was already present.
func (s *scope) put(name string, b binding) (existed bool) {
	if s == nil {
		return false
	}

	_, existed = s.names[name]
	s.names[name] = b
	return existed
}

// depth returns how many scopes outward from s declare name, or false if no
// enclosing local scope does.
func (s *scope) depth(name string) (int, bool) {
	for hops := 0; s != nil; hops, s = hops+1, s.parent {
		if _, ok := s.names[name]; ok {
			return hops, true
		}
	}

	return 0, false
}
