package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`

	Net struct {
		// host:port targets probed to decide whether the device is online
		ProbeTargets   []string `yaml:"probe_targets"`
		ProbeTimeoutMS int      `yaml:"probe_timeout_ms"`
	} `yaml:"net"`
}

func Default() Config {
	var cfg Config
	cfg.App.DataDir = "."
	cfg.API.BaseURL = "https://sandbox-job-app.bosselt.com/api/v1/"
	cfg.API.TimeoutSeconds = 15
	cfg.Net.ProbeTargets = []string{"1.1.1.1:443", "8.8.8.8:53"}
	cfg.Net.ProbeTimeoutMS = 2000
	return cfg
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
