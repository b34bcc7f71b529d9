// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/scholar-engine/internal/workspace"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// buildConfig assembles the orchestrator configuration from defaults, the
// viper config file / environment, and the secrets directory. Precedence for
// credentials: config file or env first, then the .secrets/ file.
func buildConfig() types.Config {
	cfg := types.DefaultConfig()

	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.Cache.TTL = v
	}
	if v := viper.GetDuration("http.timeout"); v > 0 {
		cfg.HTTP.Timeout = v
	}
	if v := viper.GetDuration("http.query_timeout"); v > 0 {
		cfg.HTTP.QueryTimeout = v
	}
	if v := viper.GetString("http.user_agent"); v != "" {
		cfg.HTTP.UserAgent = v
	}

	if v := viper.GetString("defaults.citation_style"); v != "" {
		cfg.Defaults.CitationStyle = types.CitationStyle(v)
	}
	if v := viper.GetString("defaults.synthesis_type"); v != "" {
		cfg.Defaults.SynthesisType = types.SynthesisType(v)
	}
	if v := viper.GetString("defaults.analysis_depth"); v != "" {
		cfg.Defaults.AnalysisDepth = types.AnalysisDepth(v)
	}
	if v := viper.GetInt("defaults.max_results"); v > 0 {
		cfg.Defaults.MaxResults = v
	}

	cfg.Strategies.OpenAI.APIKey = secretDefault("openai-api-key", viper.GetString("strategies.openai.api_key"))
	if v := viper.GetString("strategies.openai.base_url"); v != "" {
		cfg.Strategies.OpenAI.BaseURL = v
	}
	if v := viper.GetString("strategies.openai.model"); v != "" {
		cfg.Strategies.OpenAI.Model = v
	}

	cfg.Strategies.Backend.BaseURL = secretDefault("backend-url", viper.GetString("strategies.backend.base_url"))
	cfg.Strategies.Backend.Enabled = cfg.Strategies.Backend.BaseURL != ""
	if viper.IsSet("strategies.backend.enabled") {
		cfg.Strategies.Backend.Enabled = viper.GetBool("strategies.backend.enabled")
	}

	cfg.Strategies.FutureHouse.APIKey = secretDefault("futurehouse-api-key", viper.GetString("strategies.futurehouse.api_key"))
	cfg.Strategies.FutureHouse.BaseURL = viper.GetString("strategies.futurehouse.base_url")
	cfg.Strategies.FutureHouse.Enabled = cfg.Strategies.FutureHouse.APIKey != "" && cfg.Strategies.FutureHouse.BaseURL != ""
	if viper.IsSet("strategies.futurehouse.enabled") {
		cfg.Strategies.FutureHouse.Enabled = viper.GetBool("strategies.futurehouse.enabled")
	}

	cfg.Workspace.DBPath = viper.GetString("workspace.db_path")

	return cfg
}

// newLogger builds the CLI logger. Verbose selects the development encoder
// at debug level; otherwise errors only, keeping stdout clean for output.
func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return logger
	}
	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	logger, err := logCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openWorkspaceStore selects the workspace store: SQLite when a database
// path is configured, in-memory otherwise. The returned closer is a no-op
// for the memory store.
func openWorkspaceStore(cfg types.Config) (workspace.Store, func() error, error) {
	if cfg.Workspace.DBPath == "" {
		return workspace.NewMemoryStore(), func() error { return nil }, nil
	}
	store, err := workspace.NewSQLiteStore(cfg.Workspace.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}
