package typescript

import (
	"github.com/koskimas/stonets/internal/gen"
	"github.com/koskimas/stonets/internal/model"
)

const targetName = "TypeScript"

// PrimitiveTypes maps schema primitives to TypeScript types. It is never
// modified after initialization.
var PrimitiveTypes = map[model.PrimitiveName]string{
	model.TypeBytes:   "string",
	model.TypeBoolean: "boolean",
	model.TypeFloat32: "number",
	model.TypeFloat64: "number",
	model.TypeInt32:   "number",
	// JavaScript numbers can't hold every 64 bit integer but the JSON
	// encoding of these fields uses plain numbers.
	model.TypeInt64:     "number",
	model.TypeUInt32:    "number",
	model.TypeUInt64:    "number",
	model.TypeList:      "Array",
	model.TypeString:    "string",
	model.TypeTimestamp: "string",
	model.TypeVoid:      "void",
}

// FormatType returns the TypeScript type expression for `t`.
//
// Nullability is dropped: a nullable field is declared optional (`name?: T`)
// where the field is emitted, so the type itself doesn't need `| null`.
// Aliases are formatted as the type they stand for.
func FormatType(t model.DataType) (string, error) {
	if inner, ok := model.UnwrapNullable(t); ok {
		return FormatType(inner)
	}

	switch v := t.(type) {
	case *model.Alias:
		return FormatType(v.Target)
	case *model.Primitive:
		ts, ok := PrimitiveTypes[v.Name]
		if !ok {
			return "", &gen.UnmappedPrimitiveError{Name: v.Name, Target: targetName}
		}

		return ts, nil
	case *model.List:
		elem, err := FormatType(v.Elem)
		if err != nil {
			return "", err
		}

		return elem + "[]", nil
	}

	return t.TypeName(), nil
}
