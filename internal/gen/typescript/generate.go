// Package typescript generates a TypeScript declaration file (.d.ts) for a
// JavaScript client of a schema: an interface per struct and union and a
// client class with one method per route.
package typescript

import (
	"fmt"
	"io"

	"github.com/koskimas/stonets/internal/config"
	"github.com/koskimas/stonets/internal/gen"
	"github.com/koskimas/stonets/internal/model"
)

const (
	header     = "// Auto-generated by stonets, do not modify."
	indentUnit = "    "
)

type Options struct {
	ModuleName string
	ClassName  string

	// Docs shorter than SingleLineDocLimit are emitted as `/** doc */`.
	// Longer ones are wrapped at WrapColumn.
	SingleLineDocLimit int
	WrapColumn         int
}

func DefaultOptions() Options {
	return Options{
		ModuleName:         config.DefaultModuleName,
		ClassName:          config.DefaultClassName,
		SingleLineDocLimit: config.DefaultSingleLineDocLimit,
		WrapColumn:         config.DefaultWrapColumn,
	}
}

func OptionsFromConfig(cfg config.TypeScript) Options {
	return Options{
		ModuleName:         cfg.Module,
		ClassName:          cfg.Class,
		SingleLineDocLimit: cfg.SingleLineDocLimit,
		WrapColumn:         cfg.WrapColumn,
	}
}

type generator struct {
	w    *gen.Writer
	opts Options
}

// WriteFile generates the declarations of `api` into `filePath`.
func WriteFile(filePath string, api *model.API, opts Options) error {
	return gen.WriteFile(filePath, func(w io.Writer) error {
		return Generate(w, api, opts)
	})
}

// Generate writes the declarations of `api` to `w`: first an interface for
// every struct and union of every namespace, then a module with the client
// class. Any error aborts the generation.
func Generate(w io.Writer, api *model.API, opts Options) error {
	g := &generator{
		w:    gen.NewWriter(w, indentUnit),
		opts: opts,
	}

	g.w.Emit(header)
	g.w.Emit("")

	for _, ns := range api.Namespaces {
		for _, t := range ns.LinearizeDataTypes() {
			if err := g.generateDataType(t); err != nil {
				return err
			}
		}
	}

	err := g.w.Block(fmt.Sprintf(`declare module "%s"`, opts.ModuleName), func() error {
		err := g.w.Block(fmt.Sprintf("class %s", opts.ClassName), func() error {
			for _, ns := range api.Namespaces {
				for _, route := range ns.Routes {
					if err := g.generateMethod(ns, route); err != nil {
						return err
					}
				}
			}

			return nil
		})

		if err != nil {
			return err
		}

		g.w.Emit("")
		g.w.Emitf("export = %s;", opts.ClassName)
		return nil
	})

	if err != nil {
		return err
	}

	return g.w.Err()
}

func (g *generator) generateDataType(t model.DataType) error {
	var err error

	switch v := t.(type) {
	case *model.Struct:
		err = g.generateInterface(v)
	case *model.Union:
		err = g.generateUnionInterface(v)
	default:
		// TODO: emit `type Alias = Target;` so aliases keep their names.
		return nil
	}

	if err != nil {
		return err
	}

	g.w.Emit("")
	return nil
}
