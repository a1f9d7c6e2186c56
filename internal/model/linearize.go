package model

// LinearizeDataTypes returns the namespace's types ordered so that every type
// comes after the types of the same namespace it depends on: its parent, the
// types of its fields and the targets of aliases. Types that don't depend on
// each other keep their declaration order.
func (ns *Namespace) LinearizeDataTypes() []DataType {
	l := &linearizer{
		ns:      ns,
		visited: make(map[DataType]bool, len(ns.Types)),
		out:     make([]DataType, 0, len(ns.Types)),
	}

	for _, t := range ns.Types {
		l.visit(t)
	}

	return l.out
}

type linearizer struct {
	ns      *Namespace
	visited map[DataType]bool
	out     []DataType
}

func (l *linearizer) visit(t DataType) {
	t, _ = UnwrapNullable(t)

	if list, ok := t.(*List); ok {
		l.visit(list.Elem)
		return
	}

	if !l.isOwn(t) || l.visited[t] {
		return
	}

	// Marking before descending lets recursive types terminate.
	l.visited[t] = true

	switch v := t.(type) {
	case *Struct:
		if v.Parent != nil {
			l.visit(v.Parent)
		}

		for _, f := range v.Fields {
			l.visit(f.Type)
		}
	case *Union:
		if v.Parent != nil {
			l.visit(v.Parent)
		}

		for _, f := range v.Fields {
			l.visit(f.Type)
		}
	case *Alias:
		l.visit(v.Target)
	}

	l.out = append(l.out, t)
}

func (l *linearizer) isOwn(t DataType) bool {
	switch v := t.(type) {
	case *Struct:
		return v.Namespace == l.ns.Name
	case *Union:
		return v.Namespace == l.ns.Name
	case *Alias:
		return v.Namespace == l.ns.Name
	}

	return false
}
