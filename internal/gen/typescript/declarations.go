package typescript

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/koskimas/stonets/internal/model"
)

const tagField = "'.tag'"

// generateInterface emits an interface for a struct. A parent struct maps
// directly to `extends`. Enumerated subtypes add a `.tag` discriminator with
// one string literal per subtype.
func (g *generator) generateInterface(s *model.Struct) error {
	if s.Doc != "" {
		g.emitDocstring(s.Doc)
	}

	header := fmt.Sprintf("interface %s", s.Name)
	if s.Parent != nil {
		header += fmt.Sprintf(" extends %s", s.Parent.Name)
	}

	return g.w.Block(header, func() error {
		if s.HasEnumeratedSubtypes() {
			tags := make([]string, 0, len(s.Subtypes))
			for _, st := range s.Subtypes {
				tags = append(tags, quote(st.Tag))
			}

			g.w.Emitf("%s: %s", tagField, strings.Join(tags, " | "))
		}

		for _, f := range s.AllFields() {
			if f.Doc != "" {
				g.emitDocstring(f.Doc)
			}

			ts, err := FormatType(f.Type)
			if err != nil {
				return errors.Wrapf(err, "field %s.%s", s.Name, f.Name)
			}

			optional := ""
			if !s.IsRequired(f) {
				optional = "?"
			}

			g.w.Emitf("%s%s: %s;", f.Name, optional, ts)
		}

		return nil
	})
}

// generateUnionInterface emits an interface for a union where every variant
// is an optional field next to the `.tag` discriminator. TypeScript's
// discriminated unions would be stricter but this shape works with any
// TypeScript version.
func (g *generator) generateUnionInterface(u *model.Union) error {
	if u.Doc != "" {
		g.emitDocstring(u.Doc)
	}

	header := fmt.Sprintf("interface %s", u.Name)
	if u.Parent != nil {
		// Union extension has no TypeScript equivalent.
		header += fmt.Sprintf(" /* extends %s */", u.Parent.Name)
	}

	return g.w.Block(header, func() error {
		catchAll := u.CatchAllField()
		fields := u.AllFields()

		tags := make([]string, 0, len(fields)+1)
		for _, f := range fields {
			if f != catchAll {
				tags = append(tags, quote(f.Name))
			}
		}

		if catchAll != nil {
			tags = append(tags, "string")
		}

		g.w.Emitf("%s: %s", tagField, strings.Join(tags, " | "))

		for _, f := range fields {
			if f.Doc != "" {
				g.emitDocstring(f.Doc)
			}

			ts, err := FormatType(f.Type)
			if err != nil {
				return errors.Wrapf(err, "variant %s.%s", u.Name, f.Name)
			}

			// Void variants are still declared so their docs have a place.
			g.w.Emitf("%s?: %s;", f.Name, ts)
		}

		return nil
	})
}

func quote(s string) string {
	return "'" + s + "'"
}
