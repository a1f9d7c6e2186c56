package typescript

import (
	"strings"
	"unicode/utf8"
)

func (g *generator) emitDocstring(doc string) {
	doc = strings.ReplaceAll(doc, "\n", " ")
	// A literal `*/` would end the comment early.
	doc = strings.ReplaceAll(doc, "*/", `*\/`)

	if utf8.RuneCountInString(doc) < g.opts.SingleLineDocLimit {
		g.w.Emitf("/** %s */", doc)
		return
	}

	g.w.Emit("/**")
	g.w.EmitWrapped(doc, " * ", g.opts.WrapColumn)
	g.w.Emit(" */")
}
