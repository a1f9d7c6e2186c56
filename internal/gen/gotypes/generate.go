// Package gotypes generates Go declarations for a schema: a struct per schema
// struct and union, type aliases and a `Client` interface with one method per
// route. It only declares types; no client implementation is generated.
package gotypes

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dave/jennifer/jen"
	"github.com/koskimas/stonets/internal/gen"
	"github.com/koskimas/stonets/internal/model"
	"github.com/kr/text"
)

const (
	targetName = "Go"
	header     = "Code generated by stonets. DO NOT EDIT."
	docWidth   = 77

	idParamCtx        = "ctx"
	idParamArg        = "arg"
	idFieldTag        = "Tag"
	idInterfaceClient = "Client"

	jsonTagName = "json"
	jsonTagKey  = ".tag"
)

type Options struct {
	Package string
}

// WriteFile generates the Go declarations of `api` into `filePath`.
func WriteFile(filePath string, api *model.API, opts Options) error {
	return gen.WriteFile(filePath, func(w io.Writer) error {
		return Generate(w, api, opts)
	})
}

func Generate(w io.Writer, api *model.API, opts Options) error {
	f := jen.NewFile(opts.Package)
	f.HeaderComment(header)

	// Every namespace shares the one Go package, so all type names are
	// declared up front and the union constants are checked against them.
	pkg := newScope("package " + opts.Package)
	if err := pkg.declare(idInterfaceClient, "the client interface"); err != nil {
		return err
	}

	for _, ns := range api.Namespaces {
		for _, t := range ns.Types {
			if err := pkg.declare(t.TypeName(), "type "+ns.Name+"."+t.TypeName()); err != nil {
				return err
			}
		}
	}

	for _, ns := range api.Namespaces {
		for _, t := range ns.LinearizeDataTypes() {
			if err := genDataType(f, pkg, t); err != nil {
				return err
			}
		}
	}

	if err := genClientInterface(f, api); err != nil {
		return err
	}

	if err := f.Render(w); err != nil {
		return errors.Wrap(err, "failed to render Go declarations")
	}

	return nil
}

func genDataType(f *jen.File, pkg *scope, t model.DataType) error {
	switch v := t.(type) {
	case *model.Struct:
		return genStruct(f, v)
	case *model.Union:
		return genUnion(f, pkg, v)
	case *model.Alias:
		return genAlias(f, v)
	}

	return nil
}

func genStruct(f *jen.File, s *model.Struct) error {
	var err error
	fields := newScope("struct " + s.Name)

	genDoc(f.Group, s.Doc)
	f.Type().Id(s.Name).StructFunc(func(g *jen.Group) {
		if s.Parent != nil {
			// Embedding flattens the parent's fields into the JSON object.
			g.Id(s.Parent.Name)
			if err = fields.declare(s.Parent.Name, "the embedded parent"); err != nil {
				return
			}
		}

		if s.HasEnumeratedSubtypes() {
			g.Id(idFieldTag).String().Tag(map[string]string{jsonTagName: jsonTagKey})
			if err = fields.declare(idFieldTag, "the subtype tag"); err != nil {
				return
			}
		}

		for _, fld := range s.Fields {
			if err = fields.declare(exportedName(fld.Name), "field "+fld.Name); err != nil {
				return
			}

			var typ jen.Code
			if typ, err = goType(fld.Type); err != nil {
				err = errors.Wrapf(err, "field %s.%s", s.Name, fld.Name)
				return
			}

			jsonName := fld.Name
			if !s.IsRequired(fld) {
				jsonName += ",omitempty"
				typ = optionalType(fld.Type, typ)
			}

			genDoc(g, fld.Doc)
			g.Id(exportedName(fld.Name)).Add(typ).Tag(map[string]string{jsonTagName: jsonName})
		}
	})
	f.Empty()

	return err
}

// genUnion emits a struct with the `.tag` discriminator and a pointer field per
// variant that carries a value. Inherited variants are flattened into the
// struct because embedding the parent would duplicate the tag.
func genUnion(f *jen.File, pkg *scope, u *model.Union) error {
	var err error
	fields := u.AllFields()
	members := newScope("union " + u.Name)
	if err := members.declare(idFieldTag, "the variant tag"); err != nil {
		return err
	}

	genDoc(f.Group, u.Doc)
	if u.Parent != nil {
		f.Comment("Extends " + u.Parent.Name + ".")
	}

	f.Type().Id(u.Name).StructFunc(func(g *jen.Group) {
		g.Id(idFieldTag).String().Tag(map[string]string{jsonTagName: jsonTagKey})

		for _, fld := range fields {
			if model.IsVoid(fld.Type) {
				continue
			}

			if err = members.declare(exportedName(fld.Name), "variant "+fld.Name); err != nil {
				return
			}

			var typ jen.Code
			if typ, err = goType(fld.Type); err != nil {
				err = errors.Wrapf(err, "variant %s.%s", u.Name, fld.Name)
				return
			}

			genDoc(g, fld.Doc)
			g.Id(exportedName(fld.Name)).Add(optionalType(fld.Type, typ)).Tag(map[string]string{
				jsonTagName: fld.Name + ",omitempty",
			})
		}
	})
	f.Empty()

	if err != nil {
		return err
	}

	for _, fld := range fields {
		if err := pkg.declare(variantConstName(u, fld), "variant constant "+u.Name+"."+fld.Name); err != nil {
			return err
		}
	}

	f.Const().DefsFunc(func(g *jen.Group) {
		for _, fld := range fields {
			genDoc(g, fld.Doc)
			g.Id(variantConstName(u, fld)).Op("=").Lit(fld.Name)
		}
	})
	f.Empty()

	return nil
}

func variantConstName(u *model.Union, fld *model.Field) string {
	return u.Name + exportedName(fld.Name)
}

func genAlias(f *jen.File, a *model.Alias) error {
	typ, err := goType(a.Target)
	if err != nil {
		return errors.Wrapf(err, "alias %s", a.Name)
	}

	genDoc(f.Group, a.Doc)
	f.Type().Id(a.Name).Op("=").Add(typ)
	f.Empty()

	return nil
}

func genClientInterface(f *jen.File, api *model.API) error {
	var err error
	methods := newScope("interface " + idInterfaceClient)

	f.Comment(idInterfaceClient + " has a method for every route of the API.")
	f.Type().Id(idInterfaceClient).InterfaceFunc(func(g *jen.Group) {
		for _, ns := range api.Namespaces {
			for _, route := range ns.Routes {
				name := exportedName(ns.Name + "_" + route.Name)
				if err = methods.declare(name, "route "+ns.Name+"/"+route.Name); err != nil {
					return
				}

				if err = genMethod(g, name, ns, route); err != nil {
					return
				}
			}
		}
	})

	return err
}

func genMethod(g *jen.Group, name string, ns *model.Namespace, route *model.Route) error {
	params := []jen.Code{
		jen.Id(idParamCtx).Qual("context", "Context"),
	}

	if !model.IsVoid(route.Arg) {
		arg, err := goType(route.Arg)
		if err != nil {
			return errors.Wrapf(err, "argument of route %s/%s", ns.Name, route.Name)
		}

		params = append(params, jen.Id(idParamArg).Add(arg))
	}

	results := []jen.Code{jen.Error()}
	if !model.IsVoid(route.Result) {
		result, err := goType(route.Result)
		if err != nil {
			return errors.Wrapf(err, "result of route %s/%s", ns.Name, route.Name)
		}

		results = append([]jen.Code{result}, results...)
	}

	genDoc(g, route.Doc)
	if route.Deprecated {
		if route.Doc != "" {
			g.Comment("")
		}

		g.Comment("Deprecated: this route is deprecated.")
	}

	g.Id(name).Params(params...).Params(results...)
	return nil
}

func goType(t model.DataType) (jen.Code, error) {
	if inner, ok := model.UnwrapNullable(t); ok {
		return goType(inner)
	}

	switch v := t.(type) {
	case *model.Primitive:
		return goPrimitive(v)
	case *model.List:
		elem, err := goType(v.Elem)
		if err != nil {
			return nil, err
		}

		return jen.Index().Add(elem), nil
	}

	return jen.Id(t.TypeName()), nil
}

func goPrimitive(p *model.Primitive) (jen.Code, error) {
	switch p.Name {
	case model.TypeBytes:
		return jen.Index().Byte(), nil
	case model.TypeBoolean:
		return jen.Bool(), nil
	case model.TypeFloat32:
		return jen.Float32(), nil
	case model.TypeFloat64:
		return jen.Float64(), nil
	case model.TypeInt32:
		return jen.Int32(), nil
	case model.TypeInt64:
		return jen.Int64(), nil
	case model.TypeUInt32:
		return jen.Uint32(), nil
	case model.TypeUInt64:
		return jen.Uint64(), nil
	case model.TypeString:
		return jen.String(), nil
	case model.TypeTimestamp:
		return jen.Qual("time", "Time"), nil
	case model.TypeVoid:
		return jen.Struct(), nil
	}

	return nil, &gen.UnmappedPrimitiveError{Name: p.Name, Target: targetName}
}

// optionalType makes `typ` nilable. Slices already are.
func optionalType(t model.DataType, typ jen.Code) jen.Code {
	inner, _ := model.UnwrapNullable(t)
	inner = model.UnwrapAlias(inner)

	if _, ok := inner.(*model.List); ok {
		return typ
	}

	if p, ok := inner.(*model.Primitive); ok && p.Name == model.TypeBytes {
		return typ
	}

	return jen.Op("*").Add(typ)
}

func genDoc(g *jen.Group, doc string) {
	if doc == "" {
		return
	}

	for _, line := range strings.Split(text.Wrap(strings.ReplaceAll(doc, "\n", " "), docWidth), "\n") {
		g.Comment(line)
	}
}

// exportedName converts a snake_case or slash separated name to PascalCase.
func exportedName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '/'
	})

	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(firstUpper(p))
	}

	return sb.String()
}

func firstUpper(s string) string {
	return strings.ToUpper(s[0:1]) + s[1:]
}
