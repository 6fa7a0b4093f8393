package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/nbexport/pkg/types"
)

func init() {
	viper.SetDefault("backend", string(types.BackendNative))
	viper.SetDefault("image", types.DefaultNbconvertImage)
	viper.SetDefault("notebooks", []string{})
}

// resolveConfig decodes the export settings from v. Positional notebook
// arguments replace the configured list; the configured index is kept.
func resolveConfig(v *viper.Viper, args []string) (types.ExportConfig, error) {
	var cfg types.ExportConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if len(args) > 0 {
		cfg.Notebooks = args
	}

	switch cfg.Backend {
	case "":
		cfg.Backend = types.BackendNative
	case types.BackendNative, types.BackendNbconvert:
	default:
		return cfg, fmt.Errorf("unknown backend %q: want %s or %s", cfg.Backend, types.BackendNative, types.BackendNbconvert)
	}

	if len(cfg.Notebooks) == 0 && cfg.Index == "" {
		return cfg, fmt.Errorf("no notebooks to convert: pass paths as arguments or set notebooks in the config file")
	}
	return cfg, nil
}
