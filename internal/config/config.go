// Package config holds the process-wide defaults and optional YAML
// overrides, mirroring the original implementation's DEFAULTS table.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the fully-resolved runtime configuration: CLI flags take
// precedence over a YAML file, which takes precedence over Defaults.
type Config struct {
	Interface    string `yaml:"interface"`
	OSCListen    string `yaml:"osc_listen"`
	DAWHost      string `yaml:"daw_host"`
	DAWBasePort  int    `yaml:"daw_base_port"`
	ListenBase   int    `yaml:"listen_base"`
	Debug        bool   `yaml:"debug"`
	LogDir       string `yaml:"log_dir"`
	MetricsAddr  string `yaml:"metrics_addr"`
}

// Defaults mirrors the original implementation's DEFAULTS table: a host
// interface placeholder, conventional OSC ports, and metrics disabled by
// default (opted into via --metrics-addr).
func Defaults() Config {
	return Config{
		Interface:   "eth0",
		OSCListen:   "0.0.0.0",
		DAWHost:     "127.0.0.1",
		DAWBasePort: 9000,
		ListenBase:  8000,
		Debug:       false,
		LogDir:      "",
		MetricsAddr: "",
	}
}

// Load reads a YAML file at path and overlays it onto Defaults(). A
// missing file is not an error; it simply yields the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
