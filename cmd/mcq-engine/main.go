// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the mcq-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/mcq-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// logger is built from --verbose before any subcommand runs.
var logger = zap.NewNop()

// rootCmd is the base command for the mcq-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "mcq-engine",
	Short: "Generate fill-in-the-blank multiple-choice questions from text",
	Long: `mcq-engine reads a document, picks its key terms, and turns each into a
fill-in-the-blank question whose wrong options come from a lexical ontology
(WordNet) or, failing that, from ConceptNet.

Use "generate" for one document, "serve" for the HTTP API, and "lexicon" to
build or inspect the SQLite lexicon used at startup.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose, cmd.Name() == serveCmd.Name())
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", zap.Strings("keys", s.Keys()))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./mcq-engine.yaml or ~/.config/mcq-engine/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of secret files (conceptnet-api-key)")
	rootCmd.PersistentFlags().String("lexicon", "", "SQLite lexicon built by \"lexicon import\"")
	rootCmd.PersistentFlags().String("wordnet-dir", "", "WordNet 3.x dict directory (index.noun, data.noun)")
	rootCmd.PersistentFlags().String("fixture", "", "YAML lexicon file")
	rootCmd.PersistentFlags().Bool("no-conceptnet", false, "disable the ConceptNet distractor fallback")

	viper.BindPFlag("secrets_dir", rootCmd.PersistentFlags().Lookup("secrets-dir"))
	viper.BindPFlag("pipeline.lexicon.path", rootCmd.PersistentFlags().Lookup("lexicon"))
	viper.BindPFlag("pipeline.lexicon.wordnet_dir", rootCmd.PersistentFlags().Lookup("wordnet-dir"))
	viper.BindPFlag("pipeline.lexicon.fixture", rootCmd.PersistentFlags().Lookup("fixture"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mcq-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mcq-engine"))
		}
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns a logger on stderr, at debug level when verbose. Servers
// log JSON; everything else logs for a human at a console.
func newLogger(verbose, server bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if server {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = !verbose
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
