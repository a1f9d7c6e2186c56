package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const (
	CurrentVersion = 1

	DefaultModuleName         = "dropbox"
	DefaultClassName          = "Dropbox"
	DefaultSingleLineDocLimit = 70
	DefaultWrapColumn         = 80
)

type Config struct {
	Version    int        `yaml:"version"`
	Schemas    []Schema   `yaml:"schemas"`
	TypeScript TypeScript `yaml:"typescript"`
	Go         Go         `yaml:"go"`
}

type Schema struct {
	Path string `yaml:"path"`
}

type TypeScript struct {
	Module             string `yaml:"module"`
	Class              string `yaml:"class"`
	SingleLineDocLimit int    `yaml:"singleLineDocLimit"`
	WrapColumn         int    `yaml:"wrapColumn"`
}

type Go struct {
	Package string `yaml:"package"`
}

func Read(configPath string) (*Config, error) {
	fileData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, `failed to read config file "%s"`, configPath)
	}

	var config Config
	if err := yaml.Unmarshal(fileData, &config); err != nil {
		return nil, errors.Wrapf(err, `failed to unmarshal config file "%s"`, configPath)
	}

	if config.Version != 0 && config.Version != CurrentVersion {
		return nil, errors.Newf(`unsupported config version %d in "%s"`, config.Version, configPath)
	}

	if len(config.Schemas) == 0 {
		return nil, errors.Newf(`config file "%s" lists no schemas`, configPath)
	}

	return config.WithDefaults(), nil
}

// WithDefaults returns a copy of `c` where unset options have their default
// values.
func (c Config) WithDefaults() *Config {
	if c.TypeScript.Module == "" {
		c.TypeScript.Module = DefaultModuleName
	}

	if c.TypeScript.Class == "" {
		c.TypeScript.Class = DefaultClassName
	}

	if c.TypeScript.SingleLineDocLimit <= 0 {
		c.TypeScript.SingleLineDocLimit = DefaultSingleLineDocLimit
	}

	if c.TypeScript.WrapColumn <= 0 {
		c.TypeScript.WrapColumn = DefaultWrapColumn
	}

	return &c
}
