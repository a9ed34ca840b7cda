package main

import (
	"fmt"

	"github.com/milk9111/lumen/config"
	"github.com/milk9111/lumen/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// hostFlags are shared by every command that builds an engine.
type hostFlags struct {
	configPath string
	prefab     string
	graph      string
	watch      bool
	logLevel   string
	dev        bool
}

func (f *hostFlags) bind(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "YAML config file (defaults are used when empty)")
	pf.StringVar(&f.prefab, "prefab", "", "scene prefab with the initial entities")
	pf.StringVar(&f.graph, "graph", "", "logic graph file")
	pf.BoolVar(&f.watch, "watch", false, "reload the graph and script files when they change")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	pf.BoolVar(&f.dev, "dev", false, "human readable diagnostics")
}

// load resolves the config file and applies the flags that were set on top.
func (f *hostFlags) load(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return cfg, nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("prefab") {
		cfg.Prefab = f.prefab
	}
	if flags.Changed("graph") {
		cfg.Graph = f.graph
	}
	if flags.Changed("watch") {
		cfg.Watch = f.watch
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if flags.Changed("dev") {
		cfg.Log.Development = f.dev
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return cfg, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, logger, nil
}
