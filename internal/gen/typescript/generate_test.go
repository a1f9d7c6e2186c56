package typescript

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/koskimas/stonets/internal/gen"
	"github.com/koskimas/stonets/internal/model"
	"github.com/koskimas/stonets/internal/ptr"
	assert "github.com/stretchr/testify/require"
)

var (
	stringType = &model.Primitive{Name: model.TypeString}
	int32Type  = &model.Primitive{Name: model.TypeInt32}
	uint64Type = &model.Primitive{Name: model.TypeUInt64}
)

func newTestGenerator(buf *bytes.Buffer) *generator {
	return &generator{
		w:    gen.NewWriter(buf, indentUnit),
		opts: DefaultOptions(),
	}
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

func TestGenerateInterfaceRequiredAndOptionalFields(t *testing.T) {
	var buf bytes.Buffer
	g := newTestGenerator(&buf)

	err := g.generateInterface(&model.Struct{
		Name: "Person",
		Fields: []*model.Field{
			{Name: "name", Type: stringType},
			{Name: "age", Type: &model.Nullable{Inner: int32Type}},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, lines(
		"interface Person {",
		"    name: string;",
		"    age?: number;",
		"}",
	), buf.String())
}

func TestGenerateInterfaceDefaultedFieldIsOptional(t *testing.T) {
	var buf bytes.Buffer
	g := newTestGenerator(&buf)

	err := g.generateInterface(&model.Struct{
		Name: "ListFolderArg",
		Fields: []*model.Field{
			{Name: "path", Type: stringType},
			{Name: "recursive", Type: &model.Primitive{Name: model.TypeBoolean}, Default: ptr.V("false")},
		},
	})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "    path: string;\n")
	assert.Contains(t, buf.String(), "    recursive?: boolean;\n")
}

func TestGenerateInterfaceWithParentAndSubtypes(t *testing.T) {
	var buf bytes.Buffer
	g := newTestGenerator(&buf)

	metadata := &model.Struct{
		Name: "Metadata",
		Doc:  "Metadata for a file or folder.",
		Fields: []*model.Field{
			{Name: "name", Type: stringType, Doc: "The last component of the path."},
		},
	}

	file := &model.Struct{
		Name:   "FileMetadata",
		Parent: metadata,
		Fields: []*model.Field{
			{Name: "size", Type: uint64Type},
		},
	}

	folder := &model.Struct{Name: "FolderMetadata", Parent: metadata}
	metadata.Subtypes = []*model.Subtype{
		{Tag: "file", Type: file},
		{Tag: "folder", Type: folder},
	}

	assert.NoError(t, g.generateInterface(metadata))
	assert.NoError(t, g.generateInterface(file))

	assert.Equal(t, lines(
		"/** Metadata for a file or folder. */",
		"interface Metadata {",
		"    '.tag': 'file' | 'folder'",
		"    /** The last component of the path. */",
		"    name: string;",
		"}",
		"interface FileMetadata extends Metadata {",
		"    /** The last component of the path. */",
		"    name: string;",
		"    size: number;",
		"}",
	), buf.String())
}

func TestGenerateUnionInterface(t *testing.T) {
	var buf bytes.Buffer
	g := newTestGenerator(&buf)

	other := &model.Field{Name: "other", Type: model.Void}
	err := g.generateUnionInterface(&model.Union{
		Name: "LookupError",
		Fields: []*model.Field{
			{Name: "x", Type: model.Void, Doc: "Nothing here."},
			{Name: "y", Type: stringType},
			other,
		},
		CatchAll: other,
	})

	assert.NoError(t, err)
	assert.Equal(t, lines(
		"interface LookupError {",
		"    '.tag': 'x' | 'y' | string",
		"    /** Nothing here. */",
		"    x?: void;",
		"    y?: string;",
		"    other?: void;",
		"}",
	), buf.String())
}

func TestGenerateUnionInterfaceExtension(t *testing.T) {
	var buf bytes.Buffer
	g := newTestGenerator(&buf)

	other := &model.Field{Name: "other", Type: model.Void}
	base := &model.Union{
		Name:     "BaseError",
		Fields:   []*model.Field{{Name: "too_many", Type: model.Void}, other},
		CatchAll: other,
	}

	err := g.generateUnionInterface(&model.Union{
		Name:   "WriteError",
		Parent: base,
		Fields: []*model.Field{{Name: "conflict", Type: &model.Nullable{Inner: stringType}}},
	})

	assert.NoError(t, err)
	assert.Equal(t, lines(
		"interface WriteError /* extends BaseError */ {",
		"    '.tag': 'too_many' | 'conflict' | string",
		"    too_many?: void;",
		"    other?: void;",
		"    conflict?: string;",
		"}",
	), buf.String())
}

func TestGenerateUnionInterfaceClosed(t *testing.T) {
	var buf bytes.Buffer
	g := newTestGenerator(&buf)

	err := g.generateUnionInterface(&model.Union{
		Name: "Mode",
		Fields: []*model.Field{
			{Name: "add", Type: model.Void},
			{Name: "update", Type: stringType},
		},
	})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "    '.tag': 'add' | 'update'\n")
}

func TestGenerateMethod(t *testing.T) {
	var buf bytes.Buffer
	g := newTestGenerator(&buf)

	files := &model.Namespace{Name: "files"}
	metadata := &model.Struct{Name: "Metadata"}
	arg := &model.Struct{Name: "GetMetadataArg"}

	assert.NoError(t, g.generateMethod(files, &model.Route{
		Name:   "get_metadata",
		Arg:    model.Void,
		Result: metadata,
		Error:  &model.Union{Name: "LookupError"},
	}))

	assert.NoError(t, g.generateMethod(files, &model.Route{
		Name:   "get_metadata_v2",
		Doc:    "Returns the metadata.",
		Arg:    arg,
		Result: &model.List{Elem: metadata},
		Error:  model.Void,
	}))

	assert.Equal(t, lines(
		"filesGetMetadata(): Promise<Metadata>;",
		"/** Returns the metadata. */",
		"filesGetMetadataV2(arg: GetMetadataArg): Promise<Metadata[]>;",
	), buf.String())
}

func TestEmitDocstring(t *testing.T) {
	var buf bytes.Buffer
	g := newTestGenerator(&buf)

	g.emitDocstring("Short\ndoc.")
	assert.Equal(t, "/** Short doc. */\n", buf.String())

	buf.Reset()
	g.emitDocstring("Ends a comment */ early.")
	assert.Equal(t, "/** Ends a comment *\\/ early. */\n", buf.String())

	buf.Reset()
	long := "Returns the metadata for a file or folder. Note: Metadata for the root folder is\nunsupported and will return an error."
	g.emitDocstring(long)

	out := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Greater(t, len(out), 3)
	assert.Equal(t, "/**", out[0])
	assert.Equal(t, " */", out[len(out)-1])

	words := make([]string, 0)
	for _, l := range out[1 : len(out)-1] {
		assert.True(t, strings.HasPrefix(l, " * "), l)
		assert.LessOrEqual(t, len(l), DefaultOptions().WrapColumn)
		words = append(words, strings.Fields(strings.TrimPrefix(l, " * "))...)
	}

	assert.Equal(t, strings.Fields(long), words)
}

func TestEmitDocstringThreshold(t *testing.T) {
	var buf bytes.Buffer
	g := newTestGenerator(&buf)

	g.emitDocstring(strings.Repeat("a", 69))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))

	buf.Reset()
	g.emitDocstring(strings.Repeat("a", 70))
	assert.Equal(t, lines("/**", " * "+strings.Repeat("a", 70), " */"), buf.String())
}

func TestEmitDocstringWrapsAtIndentedColumn(t *testing.T) {
	var buf bytes.Buffer
	g := newTestGenerator(&buf)
	g.opts.WrapColumn = 40

	g.w.Indent()
	g.w.Indent()
	g.emitDocstring("one two three four five six seven eight nine ten eleven twelve thirteen fourteen")

	for _, l := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.True(t, strings.HasPrefix(l, "        "), l)
		assert.LessOrEqual(t, len(l), 40, l)
	}
}

func TestGenerate(t *testing.T) {
	metadata := &model.Struct{
		Name:      "Metadata",
		Namespace: "files",
		Fields: []*model.Field{
			{Name: "name", Type: stringType},
			{Name: "age", Type: &model.Nullable{Inner: int32Type}},
		},
	}

	getArg := &model.Struct{
		Name:      "GetMetadataArg",
		Namespace: "files",
		Fields:    []*model.Field{{Name: "path", Type: stringType}},
	}

	api := &model.API{
		Namespaces: []*model.Namespace{
			{
				Name:  "files",
				Types: []model.DataType{metadata, getArg},
				Routes: []*model.Route{
					{Name: "get_metadata", Arg: model.Void, Result: metadata, Error: model.Void},
					{Name: "get", Arg: getArg, Result: metadata, Error: model.Void},
				},
			},
			{
				Name: "users",
				Types: []model.DataType{
					&model.Alias{Name: "AccountId", Namespace: "users", Target: stringType},
				},
				Routes: []*model.Route{
					{Name: "get_current_account", Arg: model.Void, Result: model.Void, Error: model.Void},
				},
			},
		},
	}

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ModuleName = "acme"
	opts.ClassName = "Acme"

	assert.NoError(t, Generate(&buf, api, opts))
	assert.Equal(t, lines(
		"// Auto-generated by stonets, do not modify.",
		"",
		"interface Metadata {",
		"    name: string;",
		"    age?: number;",
		"}",
		"",
		"interface GetMetadataArg {",
		"    path: string;",
		"}",
		"",
		`declare module "acme" {`,
		"    class Acme {",
		"        filesGetMetadata(): Promise<Metadata>;",
		"        filesGet(arg: GetMetadataArg): Promise<Metadata>;",
		"        usersGetCurrentAccount(): Promise<void>;",
		"    }",
		"",
		"    export = Acme;",
		"}",
	), buf.String())
}

func TestGenerateUsesLinearizedOrder(t *testing.T) {
	child := &model.Struct{Name: "Child", Namespace: "ns"}
	parent := &model.Struct{Name: "Parent", Namespace: "ns"}
	child.Parent = parent

	api := &model.API{
		Namespaces: []*model.Namespace{
			{Name: "ns", Types: []model.DataType{child, parent}},
		},
	}

	var buf bytes.Buffer
	assert.NoError(t, Generate(&buf, api, DefaultOptions()))

	out := buf.String()
	assert.Less(t, strings.Index(out, "interface Parent {"), strings.Index(out, "interface Child extends Parent {"))
}

func TestGenerateFailsOnUnmappedPrimitive(t *testing.T) {
	api := &model.API{
		Namespaces: []*model.Namespace{
			{
				Name: "ns",
				Routes: []*model.Route{
					{Name: "r", Arg: model.Void, Result: &model.Primitive{Name: "Decimal"}, Error: model.Void},
				},
			},
		},
	}

	var buf bytes.Buffer
	err := Generate(&buf, api, DefaultOptions())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "result of route ns/r")

	var unmapped *gen.UnmappedPrimitiveError
	assert.True(t, errors.As(err, &unmapped))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestGenerateReturnsWriteErrors(t *testing.T) {
	api := &model.API{Namespaces: []*model.Namespace{{Name: "ns"}}}

	err := Generate(failingWriter{}, api, DefaultOptions())
	assert.EqualError(t, err, "disk full")
}
