package gotypes

import (
	"github.com/cockroachdb/errors"
)

// scope tracks the Go identifiers declared in one namespace of the output,
// like the package or the fields of a struct. Schema names that differ only
// in separators map to the same identifier and must be rejected before the
// file is rendered.
type scope struct {
	owner string
	names map[string]string
}

func newScope(owner string) *scope {
	return &scope{
		owner: owner,
		names: make(map[string]string),
	}
}

func (s *scope) declare(name string, what string) error {
	if prev, ok := s.names[name]; ok {
		return errors.Newf(`%s and %s both map to the Go identifier "%s" in %s`, prev, what, name, s.owner)
	}

	s.names[name] = what
	return nil
}
