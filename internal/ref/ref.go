package ref

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

type Kind int

const (
	// KindNamed is a primitive or a user defined type, optionally qualified
	// with a namespace like `files.Metadata`.
	KindNamed Kind = iota
	KindList
	KindNullable
)

// TypeRef is a parsed type reference such as `String`, `files.Metadata`,
// `List(Int32)` or `Metadata?`.
type TypeRef struct {
	Kind      Kind
	Namespace string
	Name      string
	Elem      *TypeRef
}

func (r *TypeRef) String() string {
	switch r.Kind {
	case KindList:
		return fmt.Sprintf("List(%s)", r.Elem.String())
	case KindNullable:
		return r.Elem.String() + "?"
	}

	if r.Namespace != "" {
		return r.Namespace + "." + r.Name
	}

	return r.Name
}

func Parse(ref string) (*TypeRef, error) {
	r, err := parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, errors.Wrapf(err, `failed to parse type reference "%s"`, ref)
	}

	return r, nil
}

func parse(ref string) (*TypeRef, error) {
	if ref == "" {
		return nil, errors.New("empty type")
	}

	if inner, ok := strings.CutSuffix(ref, "?"); ok {
		elem, err := parse(strings.TrimSpace(inner))
		if err != nil {
			return nil, err
		}

		if elem.Kind == KindNullable {
			return nil, errors.Newf(`nullable type "%s" can't be made nullable again`, inner)
		}

		return &TypeRef{Kind: KindNullable, Elem: elem}, nil
	}

	if inner, ok := strings.CutPrefix(ref, "List("); ok {
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok {
			return nil, errors.Newf(`missing ")" in "%s"`, ref)
		}

		elem, err := parse(strings.TrimSpace(inner))
		if err != nil {
			return nil, err
		}

		return &TypeRef{Kind: KindList, Elem: elem}, nil
	}

	dot := strings.IndexByte(ref, '.')

	var ns, name string
	if dot != -1 {
		ns = ref[0:dot]
		name = ref[dot+1:]

		if !isIdentifier(ns) {
			return nil, errors.Newf(`invalid namespace "%s"`, ns)
		}
	} else {
		name = ref
	}

	if !isIdentifier(name) {
		return nil, errors.Newf(`invalid type name "%s"`, name)
	}

	return &TypeRef{Kind: KindNamed, Namespace: ns, Name: name}, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return true
}
