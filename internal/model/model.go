package model

type PrimitiveName = string

const (
	TypeBytes     PrimitiveName = "Bytes"
	TypeBoolean   PrimitiveName = "Boolean"
	TypeFloat32   PrimitiveName = "Float32"
	TypeFloat64   PrimitiveName = "Float64"
	TypeInt32     PrimitiveName = "Int32"
	TypeInt64     PrimitiveName = "Int64"
	TypeUInt32    PrimitiveName = "UInt32"
	TypeUInt64    PrimitiveName = "UInt64"
	TypeList      PrimitiveName = "List"
	TypeString    PrimitiveName = "String"
	TypeTimestamp PrimitiveName = "Timestamp"
	TypeVoid      PrimitiveName = "Void"
)

// PrimitiveNames lists every primitive a schema may reference by name.
// `List` is not included because it is parameterized and parsed as `List(T)`.
var PrimitiveNames = []PrimitiveName{
	TypeBytes,
	TypeBoolean,
	TypeFloat32,
	TypeFloat64,
	TypeInt32,
	TypeInt64,
	TypeUInt32,
	TypeUInt64,
	TypeString,
	TypeTimestamp,
	TypeVoid,
}

// DataType is implemented by every type of the schema model.
type DataType interface {
	TypeName() string
}

type Primitive struct {
	Name PrimitiveName
}

func (p *Primitive) TypeName() string {
	return p.Name
}

// Void is shared by all fields, arguments and results that carry no value.
var Void = &Primitive{Name: TypeVoid}

type List struct {
	Elem DataType
}

func (l *List) TypeName() string {
	return TypeList
}

type Nullable struct {
	Inner DataType
}

func (n *Nullable) TypeName() string {
	return n.Inner.TypeName()
}

type Alias struct {
	Name      string
	Doc       string
	Namespace string
	Target    DataType
}

func (a *Alias) TypeName() string {
	return a.Name
}

type Field struct {
	Name string
	Type DataType
	Doc  string

	// Default is the raw default value of a struct field, if any.
	Default *string
}

// Subtype is one member of a struct's enumerated subtypes.
type Subtype struct {
	Tag  string
	Type *Struct
}

type Struct struct {
	Name      string
	Doc       string
	Namespace string
	Parent    *Struct
	Fields    []*Field
	Subtypes  []*Subtype
}

func (s *Struct) TypeName() string {
	return s.Name
}

// AllFields returns the fields inherited from the parent chain followed by
// the struct's own fields.
func (s *Struct) AllFields() []*Field {
	if s.Parent == nil {
		return s.Fields
	}

	fields := make([]*Field, 0, len(s.Fields))
	fields = append(fields, s.Parent.AllFields()...)
	return append(fields, s.Fields...)
}

// IsRequired reports whether `f` must be present: it is neither nullable nor
// defaulted.
func (s *Struct) IsRequired(f *Field) bool {
	if f.Default != nil {
		return false
	}

	return !IsNullable(f.Type)
}

func (s *Struct) AllRequiredFields() []*Field {
	required := make([]*Field, 0)

	for _, f := range s.AllFields() {
		if s.IsRequired(f) {
			required = append(required, f)
		}
	}

	return required
}

func (s *Struct) HasEnumeratedSubtypes() bool {
	return len(s.Subtypes) > 0
}

type Union struct {
	Name      string
	Doc       string
	Namespace string
	Parent    *Union
	Fields    []*Field
	CatchAll  *Field
}

func (u *Union) TypeName() string {
	return u.Name
}

// AllFields returns the variants inherited from the parent chain followed by
// the union's own variants.
func (u *Union) AllFields() []*Field {
	if u.Parent == nil {
		return u.Fields
	}

	fields := make([]*Field, 0, len(u.Fields))
	fields = append(fields, u.Parent.AllFields()...)
	return append(fields, u.Fields...)
}

// CatchAllField returns the variant that stands for unknown tags. A union
// without its own catch-all inherits the parent's.
func (u *Union) CatchAllField() *Field {
	if u.CatchAll != nil {
		return u.CatchAll
	}

	if u.Parent != nil {
		return u.Parent.CatchAllField()
	}

	return nil
}

type Route struct {
	Name       string
	Doc        string
	Arg        DataType
	Result     DataType
	Error      DataType
	Deprecated bool
}

type Namespace struct {
	Name   string
	Doc    string
	Types  []DataType
	Routes []*Route
}

// Type returns the user defined type called `name`, or nil.
func (ns *Namespace) Type(name string) DataType {
	for _, t := range ns.Types {
		if t.TypeName() == name {
			return t
		}
	}

	return nil
}

type API struct {
	Namespaces []*Namespace
}

func (api *API) Namespace(name string) *Namespace {
	for _, ns := range api.Namespaces {
		if ns.Name == name {
			return ns
		}
	}

	return nil
}

// UnwrapNullable strips any number of nullable wrappers. The boolean is true
// if at least one was removed.
func UnwrapNullable(t DataType) (DataType, bool) {
	nullable := false

	for {
		n, ok := t.(*Nullable)
		if !ok {
			return t, nullable
		}

		t = n.Inner
		nullable = true
	}
}

// UnwrapAlias follows alias targets until a non-alias type is reached.
func UnwrapAlias(t DataType) DataType {
	for {
		a, ok := t.(*Alias)
		if !ok {
			return t
		}

		t = a.Target
	}
}

// IsNullable reports whether `t` is nullable, looking through aliases.
func IsNullable(t DataType) bool {
	for {
		switch v := t.(type) {
		case *Nullable:
			return true
		case *Alias:
			t = v.Target
		default:
			return false
		}
	}
}

func IsVoid(t DataType) bool {
	p, ok := UnwrapAlias(t).(*Primitive)
	return ok && p.Name == TypeVoid
}
