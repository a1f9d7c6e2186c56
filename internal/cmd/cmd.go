package cmd

import (
	"go/token"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/koskimas/stonets/internal/config"
	"github.com/koskimas/stonets/internal/gen/gotypes"
	"github.com/koskimas/stonets/internal/gen/typescript"
	"github.com/koskimas/stonets/internal/maps"
	"github.com/koskimas/stonets/internal/model"
	"github.com/koskimas/stonets/internal/model/stone"
	"go.uber.org/zap"
)

const ConfigFile = "stonets.yaml"

type Lang string

const (
	LangTypeScript Lang = "typescript"
	LangGo         Lang = "go"
)

// ParseLang accepts the language names of the `--lang` flag.
func ParseLang(s string) (Lang, error) {
	switch strings.ToLower(s) {
	case "", "typescript", "ts":
		return LangTypeScript, nil
	case "go", "golang":
		return LangGo, nil
	}

	return "", errors.Newf(`unsupported language "%s"`, s)
}

type Settings struct {
	WorkingDir string
	// ConfigPath defaults to `stonets.yaml` in the working directory.
	ConfigPath  string
	Destination string
	Lang        Lang
	Logger      *zap.SugaredLogger
}

func Run(s Settings) error {
	log := s.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	if s.Destination == "" {
		return errors.New("no destination file given")
	}

	configPath := filepath.Join(s.WorkingDir, ConfigFile)
	if s.ConfigPath != "" {
		configPath = resolvePath(s.WorkingDir, s.ConfigPath)
	}

	cfg, err := config.Read(configPath)
	if err != nil {
		return err
	}

	schemaFiles, err := getSchemaFiles(filepath.Dir(configPath), *cfg)
	if err != nil {
		return err
	}

	for _, f := range schemaFiles {
		log.Debugw("reading schema file", "path", f)
	}

	api, err := stone.ReadAPI(schemaFiles)
	if err != nil {
		return err
	}

	logAPI(log, api)

	destination := resolvePath(s.WorkingDir, s.Destination)

	switch s.Lang {
	case LangTypeScript, "":
		err = typescript.WriteFile(destination, api, typescript.OptionsFromConfig(cfg.TypeScript))
	case LangGo:
		var opts gotypes.Options
		if opts, err = goOptions(*cfg, destination); err == nil {
			err = gotypes.WriteFile(destination, api, opts)
		}
	default:
		err = errors.Newf(`unsupported language "%s"`, s.Lang)
	}

	if err != nil {
		return err
	}

	log.Infow("wrote declarations", "path", destination, "lang", s.Lang)
	return nil
}

// getSchemaFiles resolves the schema globs of `cfg` relative to `baseDir`. The
// returned paths are unique and sorted.
func getSchemaFiles(baseDir string, cfg config.Config) ([]string, error) {
	paths := make(map[string]struct{})

	for _, sc := range cfg.Schemas {
		files, err := filepath.Glob(resolvePath(baseDir, sc.Path))
		if err != nil {
			return nil, errors.Wrapf(err, `failed to resolve schema files using glob "%s"`, sc.Path)
		}

		if len(files) == 0 {
			return nil, errors.Newf(`schema glob "%s" matches no files`, sc.Path)
		}

		for _, f := range files {
			paths[f] = struct{}{}
		}
	}

	return maps.Keys(paths), nil
}

// goOptions takes the package name from the config or else from the
// destination's directory.
func goOptions(cfg config.Config, destination string) (gotypes.Options, error) {
	pkg := cfg.Go.Package
	if pkg == "" {
		pkg = filepath.Base(filepath.Dir(destination))

		if !token.IsIdentifier(pkg) {
			return gotypes.Options{}, errors.Newf(`directory name "%s" is not a valid Go package name, set "go.package" in the config`, pkg)
		}
	}

	if !token.IsIdentifier(pkg) {
		return gotypes.Options{}, errors.Newf(`"go.package" value "%s" is not a valid Go package name`, pkg)
	}

	return gotypes.Options{Package: pkg}, nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(baseDir, path)
}

func logAPI(log *zap.SugaredLogger, api *model.API) {
	for _, ns := range api.Namespaces {
		log.Infow("read namespace",
			"namespace", ns.Name,
			"types", len(ns.Types),
			"routes", len(ns.Routes),
		)
	}
}
