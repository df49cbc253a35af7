// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mcq-engine/internal/secrets"
	"github.com/pdiddy/mcq-engine/pkg/types"
)

// envPrefix prefixes every environment override, e.g. MCQ_ENGINE_PIPELINE_WORKERS.
const envPrefix = "MCQ_ENGINE"

// appConfig is the layout of mcq-engine.yaml.
type appConfig struct {
	Pipeline types.PipelineConfig `mapstructure:"pipeline"`
	Server   types.ServerConfig   `mapstructure:"server"`
}

// bindEnv maps nested keys to MCQ_ENGINE_* variables and registers every
// config leaf. AutomaticEnv only resolves keys v already knows, so a leaf
// without a default could not be set from the environment.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
}

func setDefaults(v *viper.Viper) {
	p := types.DefaultPipelineConfig()
	v.SetDefault("pipeline.workers", p.Workers)
	v.SetDefault("pipeline.request_timeout", p.RequestTimeout)
	v.SetDefault("pipeline.max_options", p.MaxOptions)

	v.SetDefault("pipeline.keyphrase.top_n", p.Keyphrase.TopN)
	v.SetDefault("pipeline.keyphrase.alpha", p.Keyphrase.Alpha)
	v.SetDefault("pipeline.keyphrase.threshold", p.Keyphrase.Threshold)
	v.SetDefault("pipeline.keyphrase.damping", p.Keyphrase.Damping)

	cn := p.ConceptNet
	v.SetDefault("pipeline.conceptnet.timeout", cn.Timeout)
	v.SetDefault("pipeline.conceptnet.user_agent", cn.UserAgent)
	v.SetDefault("pipeline.conceptnet.enabled", cn.Enabled)
	v.SetDefault("pipeline.conceptnet.base_url", cn.BaseURL)
	v.SetDefault("pipeline.conceptnet.primary_limit", cn.PrimaryLimit)
	v.SetDefault("pipeline.conceptnet.secondary_limit", cn.SecondaryLimit)
	v.SetDefault("pipeline.conceptnet.rate_per_second", cn.RatePerSecond)
	v.SetDefault("pipeline.conceptnet.burst", cn.Burst)
	v.SetDefault("pipeline.conceptnet.max_retries", cn.MaxRetries)
	v.SetDefault("pipeline.conceptnet.api_key", cn.APIKey)

	v.SetDefault("pipeline.lexicon.path", p.Lexicon.Path)
	v.SetDefault("pipeline.lexicon.wordnet_dir", p.Lexicon.WordNetDir)
	v.SetDefault("pipeline.lexicon.fixture", p.Lexicon.Fixture)

	s := types.DefaultServerConfig()
	v.SetDefault("server.addr", s.Addr)
	v.SetDefault("server.cors_origins", s.CORSOrigins)
	v.SetDefault("server.max_body_bytes", s.MaxBodyBytes)
	v.SetDefault("server.handler_timeout", s.HandlerTimeout)
}

// loadAppConfig decodes every layer v knows about: flags, environment,
// config file, then defaults.
func loadAppConfig(v *viper.Viper) (appConfig, error) {
	cfg := appConfig{
		Pipeline: types.DefaultPipelineConfig(),
		Server:   types.DefaultServerConfig(),
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// pipelineConfig returns the resolved pipeline settings with the
// --no-conceptnet flag and the ConceptNet secret applied.
func pipelineConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	app, err := loadAppConfig(viper.GetViper())
	if err != nil {
		return app.Pipeline, err
	}
	cfg := app.Pipeline
	if off, _ := cmd.Flags().GetBool("no-conceptnet"); off {
		cfg.ConceptNet.Enabled = false
	}
	cfg.ConceptNet.APIKey = loadedSecrets.Get(secrets.ConceptNetAPIKey, cfg.ConceptNet.APIKey)
	return cfg, nil
}

// serverConfig returns the resolved server settings.
func serverConfig() (types.ServerConfig, error) {
	app, err := loadAppConfig(viper.GetViper())
	return app.Server, err
}
