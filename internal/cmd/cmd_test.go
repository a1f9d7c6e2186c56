package cmd

import (
	"path/filepath"
	"testing"

	"github.com/koskimas/stonets/internal/config"
	assert "github.com/stretchr/testify/require"
)

func TestParseLang(t *testing.T) {
	for in, want := range map[string]Lang{
		"":           LangTypeScript,
		"typescript": LangTypeScript,
		"TS":         LangTypeScript,
		"go":         LangGo,
		"golang":     LangGo,
	} {
		got, err := ParseLang(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLang("rust")
	assert.Error(t, err)
}

func TestRunRequiresDestination(t *testing.T) {
	err := Run(Settings{WorkingDir: t.TempDir()})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no destination file given")
}

func TestRunMissingConfig(t *testing.T) {
	err := Run(Settings{WorkingDir: t.TempDir(), Destination: "out.d.ts"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestGoOptions(t *testing.T) {
	opts, err := goOptions(config.Config{}, filepath.Join("/", "work", "dropbox", "types.go"))
	assert.NoError(t, err)
	assert.Equal(t, "dropbox", opts.Package)

	opts, err = goOptions(config.Config{Go: config.Go{Package: "api"}}, filepath.Join("/", "work", "my-api", "types.go"))
	assert.NoError(t, err)
	assert.Equal(t, "api", opts.Package)
}

func TestGoOptionsInvalidPackageName(t *testing.T) {
	_, err := goOptions(config.Config{}, filepath.Join("/", "work", "my-api", "types.go"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `directory name "my-api" is not a valid Go package name, set "go.package" in the config`)

	_, err = goOptions(config.Config{Go: config.Go{Package: "func"}}, filepath.Join("/", "work", "api", "types.go"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"go.package" value "func" is not a valid Go package name`)
}
