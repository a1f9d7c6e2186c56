package stone

import (
	"os"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/koskimas/stonets/internal/model"
	"github.com/koskimas/stonets/internal/ptr"
	"github.com/koskimas/stonets/internal/ref"
	"gopkg.in/yaml.v3"
)

type File struct {
	Namespace string     `yaml:"namespace"`
	Doc       string     `yaml:"doc"`
	Types     []TypeDef  `yaml:"types"`
	Routes    []RouteDef `yaml:"routes"`
}

// TypeDef declares one user defined type. Exactly one of `Struct`, `Union` and
// `Alias` is set and holds the type's name.
type TypeDef struct {
	Struct   *string      `yaml:"struct"`
	Union    *string      `yaml:"union"`
	Alias    *string      `yaml:"alias"`
	Doc      string       `yaml:"doc"`
	Extends  *string      `yaml:"extends"`
	Type     string       `yaml:"type"`
	CatchAll *string      `yaml:"catch_all"`
	Subtypes []SubtypeDef `yaml:"subtypes"`
	Fields   []FieldDef   `yaml:"fields"`
}

type SubtypeDef struct {
	Tag  string `yaml:"tag"`
	Type string `yaml:"type"`
}

type FieldDef struct {
	Name    string     `yaml:"name"`
	Type    string     `yaml:"type"`
	Doc     string     `yaml:"doc"`
	Default *yaml.Node `yaml:"default"`
}

type RouteDef struct {
	Name       string `yaml:"name"`
	Doc        string `yaml:"doc"`
	Arg        string `yaml:"arg"`
	Result     string `yaml:"result"`
	Error      string `yaml:"error"`
	Deprecated bool   `yaml:"deprecated"`
}

type FilePath = string
type NamespaceName = string
type TypeName = string

type context struct {
	Namespaces map[NamespaceName]*namespaceContext
	Order      []NamespaceName
	Primitives map[TypeName]*model.Primitive
}

type namespaceContext struct {
	Namespace *model.Namespace
	Defs      map[TypeName]*typeDefContext
	DefOrder  []TypeName
	Routes    []routeDefContext
	Types     map[TypeName]model.DataType
}

type typeDefContext struct {
	Def  *TypeDef
	File FilePath
}

type routeDefContext struct {
	Def  *RouteDef
	File FilePath
}

// ReadAPI reads the schema files in the given order and resolves them into a
// single API. Several files may contribute to the same namespace. Namespaces
// are ordered by their first appearance.
func ReadAPI(filePaths []FilePath) (*model.API, error) {
	ctx := &context{
		Namespaces: make(map[NamespaceName]*namespaceContext),
		Primitives: make(map[TypeName]*model.Primitive),
	}

	for _, name := range model.PrimitiveNames {
		if name == model.TypeVoid {
			ctx.Primitives[name] = model.Void
		} else {
			ctx.Primitives[name] = &model.Primitive{Name: name}
		}
	}

	for _, p := range filePaths {
		if err := readFile(ctx, p); err != nil {
			return nil, err
		}
	}

	api := &model.API{
		Namespaces: make([]*model.Namespace, 0, len(ctx.Order)),
	}

	for _, nsName := range ctx.Order {
		nsCtx := ctx.Namespaces[nsName]

		for _, name := range nsCtx.DefOrder {
			t, err := resolveRootType(ctx, nsName, name)
			if err != nil {
				return nil, err
			}

			nsCtx.Namespace.Types = append(nsCtx.Namespace.Types, t)
		}

		for _, r := range nsCtx.Routes {
			route, err := resolveRoute(ctx, nsName, r)
			if err != nil {
				return nil, err
			}

			nsCtx.Namespace.Routes = append(nsCtx.Namespace.Routes, route)
		}

		api.Namespaces = append(api.Namespaces, nsCtx.Namespace)
	}

	if err := checkCycles(api); err != nil {
		return nil, err
	}

	return api, nil
}

func readFile(ctx *context, filePath FilePath) error {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, `failed to read schema file "%s"`, filePath)
	}

	var file File
	if err := yaml.Unmarshal(fileData, &file); err != nil {
		return errors.Wrapf(err, `failed to unmarshal schema file "%s"`, filePath)
	}

	if file.Namespace == "" {
		return errors.Newf(`schema file "%s" has no namespace`, filePath)
	}

	nsCtx, ok := ctx.Namespaces[file.Namespace]
	if !ok {
		nsCtx = &namespaceContext{
			Namespace: &model.Namespace{
				Name:   file.Namespace,
				Types:  make([]model.DataType, 0),
				Routes: make([]*model.Route, 0),
			},
			Defs:  make(map[TypeName]*typeDefContext),
			Types: make(map[TypeName]model.DataType),
		}

		ctx.Namespaces[file.Namespace] = nsCtx
		ctx.Order = append(ctx.Order, file.Namespace)
	}

	if nsCtx.Namespace.Doc == "" {
		nsCtx.Namespace.Doc = file.Doc
	}

	for i := range file.Types {
		def := &file.Types[i]

		name, err := typeDefName(def)
		if err != nil {
			return errors.Wrapf(err, `in schema file "%s"`, filePath)
		}

		if _, ok := ctx.Primitives[name]; ok {
			return errors.Newf(`schema file "%s" redeclares primitive type "%s"`, filePath, name)
		}

		if prev, ok := nsCtx.Defs[name]; ok {
			return errors.Newf(`type "%s" of namespace "%s" is declared in both "%s" and "%s"`, name, file.Namespace, prev.File, filePath)
		}

		nsCtx.Defs[name] = &typeDefContext{Def: def, File: filePath}
		nsCtx.DefOrder = append(nsCtx.DefOrder, name)
	}

	for i := range file.Routes {
		nsCtx.Routes = append(nsCtx.Routes, routeDefContext{Def: &file.Routes[i], File: filePath})
	}

	return nil
}

func typeDefName(def *TypeDef) (TypeName, error) {
	names := make([]string, 0, 1)

	for _, n := range []*string{def.Struct, def.Union, def.Alias} {
		if n != nil {
			names = append(names, *n)
		}
	}

	if len(names) != 1 {
		return "", errors.New("a type must declare exactly one of struct, union or alias")
	}

	if names[0] == "" {
		return "", errors.New("a type must have a name")
	}

	return names[0], nil
}

func resolveRootType(ctx *context, nsName NamespaceName, name TypeName) (model.DataType, error) {
	nsCtx := ctx.Namespaces[nsName]

	if t, ok := nsCtx.Types[name]; ok {
		return t, nil
	}

	defCtx, ok := nsCtx.Defs[name]
	if !ok {
		return nil, errors.Newf(`unknown type "%s" in namespace "%s"`, name, nsName)
	}

	def := defCtx.Def
	var err error

	// Every type is cached before its references are resolved so that
	// recursive references find it.
	switch {
	case def.Struct != nil:
		s := &model.Struct{Name: name, Doc: def.Doc, Namespace: nsName}
		nsCtx.Types[name] = s
		err = resolveStruct(ctx, nsName, def, s)
	case def.Union != nil:
		u := &model.Union{Name: name, Doc: def.Doc, Namespace: nsName}
		nsCtx.Types[name] = u
		err = resolveUnion(ctx, nsName, def, u)
	default:
		a := &model.Alias{Name: name, Doc: def.Doc, Namespace: nsName}
		nsCtx.Types[name] = a
		a.Target, err = resolveTypeString(ctx, nsName, def.Type)
	}

	if err != nil {
		return nil, errors.Wrapf(err, `failed to resolve type "%s.%s" in schema file "%s"`, nsName, name, defCtx.File)
	}

	return nsCtx.Types[name], nil
}

func resolveStruct(ctx *context, nsName NamespaceName, def *TypeDef, s *model.Struct) error {
	if def.CatchAll != nil {
		return errors.New("only unions can have a catch-all variant")
	}

	if def.Extends != nil {
		parent, err := resolveTypeString(ctx, nsName, *def.Extends)
		if err != nil {
			return err
		}

		ps, ok := parent.(*model.Struct)
		if !ok {
			return errors.Newf(`struct can't extend "%s" which is not a struct`, *def.Extends)
		}

		s.Parent = ps
	}

	fields, err := resolveFields(ctx, nsName, def.Fields, true)
	if err != nil {
		return err
	}

	s.Fields = fields

	for _, st := range def.Subtypes {
		if st.Tag == "" {
			return errors.Newf(`subtype "%s" has no tag`, st.Type)
		}

		t, err := resolveTypeString(ctx, nsName, st.Type)
		if err != nil {
			return err
		}

		sub, ok := t.(*model.Struct)
		if !ok {
			return errors.Newf(`subtype "%s" is not a struct`, st.Type)
		}

		s.Subtypes = append(s.Subtypes, &model.Subtype{Tag: st.Tag, Type: sub})
	}

	return nil
}

func resolveUnion(ctx *context, nsName NamespaceName, def *TypeDef, u *model.Union) error {
	if len(def.Subtypes) > 0 {
		return errors.New("only structs can have enumerated subtypes")
	}

	if def.Extends != nil {
		parent, err := resolveTypeString(ctx, nsName, *def.Extends)
		if err != nil {
			return err
		}

		pu, ok := parent.(*model.Union)
		if !ok {
			return errors.Newf(`union can't extend "%s" which is not a union`, *def.Extends)
		}

		u.Parent = pu
	}

	fields, err := resolveFields(ctx, nsName, def.Fields, false)
	if err != nil {
		return err
	}

	u.Fields = fields

	if def.CatchAll != nil {
		idx := slices.IndexFunc(u.Fields, func(f *model.Field) bool {
			return f.Name == *def.CatchAll
		})

		if idx == -1 {
			u.CatchAll = &model.Field{Name: *def.CatchAll, Type: model.Void}
			u.Fields = append(u.Fields, u.CatchAll)
		} else {
			u.CatchAll = u.Fields[idx]
		}
	}

	return nil
}

func resolveFields(ctx *context, nsName NamespaceName, defs []FieldDef, allowDefaults bool) ([]*model.Field, error) {
	fields := make([]*model.Field, 0, len(defs))

	for _, fd := range defs {
		if fd.Name == "" {
			return nil, errors.New("a field must have a name")
		}

		// Union variants without a type carry no value.
		typeStr := fd.Type
		if typeStr == "" && !allowDefaults {
			typeStr = model.TypeVoid
		}

		t, err := resolveTypeString(ctx, nsName, typeStr)
		if err != nil {
			return nil, errors.Wrapf(err, `field "%s"`, fd.Name)
		}

		f := &model.Field{
			Name: fd.Name,
			Type: t,
			Doc:  fd.Doc,
		}

		if fd.Default != nil {
			if !allowDefaults {
				return nil, errors.Newf(`union variant "%s" can't have a default`, fd.Name)
			}

			value, err := defaultValue(fd.Default)
			if err != nil {
				return nil, errors.Wrapf(err, `default of field "%s"`, fd.Name)
			}

			f.Default = ptr.V(value)
		}

		fields = append(fields, f)
	}

	return fields, nil
}

// defaultValue renders a default as written. Collections are rendered in flow
// style so that they fit on one line.
func defaultValue(node *yaml.Node) (string, error) {
	if node.Kind == yaml.ScalarNode {
		return node.Value, nil
	}

	node.Style = yaml.FlowStyle
	out, err := yaml.Marshal(node)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}

func resolveRoute(ctx *context, nsName NamespaceName, r routeDefContext) (*model.Route, error) {
	def := r.Def

	if def.Name == "" {
		return nil, errors.Newf(`route without a name in schema file "%s"`, r.File)
	}

	route := &model.Route{
		Name:       def.Name,
		Doc:        def.Doc,
		Deprecated: def.Deprecated,
	}

	types := []struct {
		ref string
		dst *model.DataType
	}{
		{def.Arg, &route.Arg},
		{def.Result, &route.Result},
		{def.Error, &route.Error},
	}

	for _, t := range types {
		if t.ref == "" {
			*t.dst = model.Void
			continue
		}

		resolved, err := resolveTypeString(ctx, nsName, t.ref)
		if err != nil {
			return nil, errors.Wrapf(err, `failed to resolve route "%s.%s" in schema file "%s"`, nsName, def.Name, r.File)
		}

		*t.dst = resolved
	}

	return route, nil
}

func resolveTypeString(ctx *context, nsName NamespaceName, typeStr string) (model.DataType, error) {
	r, err := ref.Parse(typeStr)
	if err != nil {
		return nil, err
	}

	return resolveRef(ctx, nsName, r)
}

func resolveRef(ctx *context, nsName NamespaceName, r *ref.TypeRef) (model.DataType, error) {
	switch r.Kind {
	case ref.KindNullable:
		inner, err := resolveRef(ctx, nsName, r.Elem)
		if err != nil {
			return nil, err
		}

		return &model.Nullable{Inner: inner}, nil
	case ref.KindList:
		elem, err := resolveRef(ctx, nsName, r.Elem)
		if err != nil {
			return nil, err
		}

		return &model.List{Elem: elem}, nil
	}

	if r.Namespace == "" {
		if p, ok := ctx.Primitives[r.Name]; ok {
			return p, nil
		}
	} else {
		nsName = r.Namespace
	}

	if _, ok := ctx.Namespaces[nsName]; !ok {
		return nil, errors.Newf(`unknown namespace "%s"`, nsName)
	}

	return resolveRootType(ctx, nsName, r.Name)
}

// checkCycles rejects parent chains and alias chains that loop back on
// themselves. Field references may be recursive.
func checkCycles(api *model.API) error {
	for _, ns := range api.Namespaces {
		for _, t := range ns.Types {
			seen := make(map[model.DataType]bool)

			for cur := nextInChain(t); cur != nil; cur = nextInChain(cur) {
				if cur == t || seen[cur] {
					return errors.Newf(`type "%s.%s" is part of an inheritance or alias cycle`, ns.Name, t.TypeName())
				}

				seen[cur] = true
			}
		}
	}

	return nil
}

func nextInChain(t model.DataType) model.DataType {
	switch v := t.(type) {
	case *model.Struct:
		if v.Parent != nil {
			return v.Parent
		}
	case *model.Union:
		if v.Parent != nil {
			return v.Parent
		}
	case *model.Alias:
		if target, ok := unwrapContainers(v.Target).(*model.Alias); ok {
			return target
		}
	}

	return nil
}

// unwrapContainers strips list and nullable wrappers. An alias reaching itself
// through them, like `X = List(X)`, has no finite expansion.
func unwrapContainers(t model.DataType) model.DataType {
	for {
		switch v := t.(type) {
		case *model.Nullable:
			t = v.Inner
		case *model.List:
			t = v.Elem
		default:
			return t
		}
	}
}
