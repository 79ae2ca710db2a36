package commands

import (
	"apiprobe/lib/configutil"
	configlibsql "apiprobe/lib/configutil/libsql"
	"apiprobe/lib/mailutil"
	"apiprobe/lib/probe"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

type Config struct {
	// the name printed in the report banner
	Name         string            `json:"name"`
	Environment  string            `json:"environment"`
	Environments map[string]string `json:"environments"`
	// takes precedence over environment when set
	BaseUrl          string              `json:"base_url"`
	Insecure         bool                `json:"insecure"`
	TimeoutSeconds   int                 `json:"timeout_seconds"`
	Output           string              `json:"output"`
	Timezone         string              `json:"timezone"`
	Headers          map[string]string   `json:"headers"`
	Cookies          map[string]string   `json:"cookies"`
	CloudflareBypass bool                `json:"cloudflare_bypass"`
	Database         configlibsql.Struct `json:"database"`
	Mail             mailutil.Config     `json:"mail"`
}

func defaultConfig() Config {
	return Config{
		Name:           probe.DefaultTitle,
		Environment:    probe.DefaultEnvironment,
		Environments:   probe.Environments(),
		TimeoutSeconds: int(probe.DefaultTimeout / time.Second),
		Output:         "test_api.txt",
		Headers:        probe.DefaultHeaders(),
		Cookies:        map[string]string{},
	}
}

// loadConfig reads the config at `path` on top of the defaults, a
// missing file leaves the defaults untouched. cookies left empty (an
// unset ${VAR}) are not sent.
func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadWithDefaults(path, defaultConfig())
	if err != nil {
		return cfg, err
	}
	for name, value := range cfg.Cookies {
		if value == "" {
			slog.Debug("skipping empty cookie", "name", name)
			delete(cfg.Cookies, name)
		}
	}
	return cfg, nil
}

// ResolveBaseUrl picks the base url to probe: an explicit `baseUrl`,
// then the configured base_url, then the url of environment `env`
// (falling back to the configured environment).
func (c Config) ResolveBaseUrl(env, baseUrl string) (string, error) {
	if baseUrl != "" {
		return baseUrl, nil
	}
	if c.BaseUrl != "" {
		return c.BaseUrl, nil
	}
	if env == "" {
		env = c.Environment
	}
	url, ok := c.Environments[env]
	if !ok {
		known := make([]string, 0, len(c.Environments))
		for name := range c.Environments {
			known = append(known, name)
		}
		sort.Strings(known)
		return "", fmt.Errorf("unknown environment %q (known: %s)", env, strings.Join(known, ", "))
	}
	return url, nil
}

func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return probe.DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
