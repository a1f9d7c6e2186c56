package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/koskimas/stonets/internal/cmd"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rootOptions struct {
	configPath string
	lang       string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	c := &cobra.Command{
		Use:   "stonets [flags] <destination>",
		Short: "Generate TypeScript declarations from Stone schemas",
		Example: `  # Write TypeScript declarations using ./stonets.yaml
  stonets dropbox.d.ts

  # Write Go declarations using another config file
  stonets --lang go --config api/stonets.yaml internal/dropbox/types.go`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return runRoot(opts, args[0])
		},
	}

	c.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default \"stonets.yaml\" in the working directory)")
	c.Flags().StringVarP(&opts.lang, "lang", "l", string(cmd.LangTypeScript), "Output language (typescript, ts, go)")
	c.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	return c
}

func runRoot(opts *rootOptions, destination string) error {
	lang, err := cmd.ParseLang(opts.lang)
	if err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "failed to determine working directory")
	}

	logger, err := setupLogger(opts.logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	return cmd.Run(cmd.Settings{
		WorkingDir:  wd,
		ConfigPath:  opts.configPath,
		Destination: destination,
		Lang:        lang,
		Logger:      logger,
	})
}

func setupLogger(level string) (*zap.SugaredLogger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, errors.Newf(`unsupported log level "%s"`, level)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.Encoding = "console"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logger")
	}

	return logger.Sugar(), nil
}
