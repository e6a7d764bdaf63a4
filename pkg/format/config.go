package format

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the root configuration listing every supported format.
type Config struct {
	ManualPath string         `mapstructure:"manual_path"`
	Formats    []FormatConfig `mapstructure:"formats"`
}

// FormatConfig names one format and where its definitions live. Highlights
// and Words are resolved against the directory of the root configuration
// when they are relative. Extensions may be written as a single string.
type FormatConfig struct {
	Name       string   `mapstructure:"name"`
	Highlights string   `mapstructure:"highlights"`
	Words      string   `mapstructure:"words"`
	Extensions []string `mapstructure:"extensions"`
}

// ReadConfig reads the root configuration at path. The encoding is chosen
// from the file extension (yaml, toml, json, ...).
func ReadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, &ConfigError{Source: path, Err: err}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, &ConfigError{Source: path, Err: err}
	}

	dir := filepath.Dir(path)
	for i := range cfg.Formats {
		cfg.Formats[i].Highlights = resolve(dir, cfg.Formats[i].Highlights)
		cfg.Formats[i].Words = resolve(dir, cfg.Formats[i].Words)
	}
	return cfg, nil
}

// Sources returns every sub-source path named by the configuration.
func (c Config) Sources() []string {
	var paths []string
	for _, f := range c.Formats {
		if f.Highlights != "" {
			paths = append(paths, f.Highlights)
		}
		if f.Words != "" {
			paths = append(paths, f.Words)
		}
	}
	return paths
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
