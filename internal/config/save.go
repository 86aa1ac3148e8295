package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.API.BaseURL == "" {
		errs = append(errs, "api.base_url is required")
	} else {
		u, err := url.Parse(cfg.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, "api.base_url must be an absolute URL")
		}
	}
	if cfg.API.TimeoutSeconds <= 0 || cfg.API.TimeoutSeconds > 120 {
		errs = append(errs, "api.timeout_seconds must be 1..120")
	}
	for i, t := range cfg.Net.ProbeTargets {
		if _, _, err := net.SplitHostPort(t); err != nil {
			errs = append(errs, fmt.Sprintf("net.probe_targets[%d] must be host:port", i))
		}
	}
	if cfg.Net.ProbeTimeoutMS < 0 {
		errs = append(errs, "net.probe_timeout_ms must be >= 0")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

func joinLines(lines []string) string {
	out := ""
	for i, s := range lines {
		if i > 0 {
			out += "\n- "
		}
		out += s
	}
	return out
}
