package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rhuss/restapp/pkg/debug"
)

// EnvConfigPath names the variable consulted for the config file path
// when none is given explicitly.
const EnvConfigPath = "RESTAPP_CONFIG"

// searchPaths are tried in order when no path is configured.
var searchPaths = []string{"config.yaml", "/etc/restapp/config.yaml"}

// Load builds the configuration in layers: defaults, the YAML file,
// environment overrides and *_file secret references. The result is
// validated before it is returned.
//
// The file is the explicit path, else $RESTAPP_CONFIG, else the first
// existing entry of ./config.yaml and /etc/restapp/config.yaml. Having
// no file at all is not an error. Unknown keys in the file are.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path = findConfigFile(path); path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		debug.Log(debug.Config, "config file loaded", "path", path)
	}

	for _, o := range envOverrides {
		v, ok := os.LookupEnv(o.name)
		if !ok || v == "" {
			continue
		}
		if err := o.apply(&cfg, v); err != nil {
			return nil, fmt.Errorf("environment variable %s: %w", o.name, err)
		}
		debug.Log(debug.Config, "environment override applied", "variable", o.name)
	}

	for _, ref := range secretRefs(&cfg) {
		if ref.file == "" || *ref.dst != "" {
			continue
		}
		data, err := os.ReadFile(ref.file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref.field, err)
		}
		*ref.dst = strings.TrimSpace(string(data))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func findConfigFile(path string) string {
	if path != "" {
		return path
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	for _, p := range searchPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// decodeFile merges the YAML document at path into cfg. An empty file
// leaves cfg unchanged.
func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

type envOverride struct {
	name  string
	apply func(cfg *Config, value string) error
}

// envOverrides lists the supported environment variables. Malformed
// values are errors.
var envOverrides = []envOverride{
	{"RESTAPP_PORT", func(c *Config, v string) error { return setInt(&c.Server.Port, v) }},
	{"RESTAPP_H2C", func(c *Config, v string) error { return setBool(&c.Server.H2C, v) }},
	{"RESTAPP_LOG_LEVEL", func(c *Config, v string) error { c.Logging.Level = v; return nil }},
	{"RESTAPP_DEBUG", func(c *Config, v string) error { c.Logging.Debug = v; return nil }},
	{"RESTAPP_AUTH_TYPE", func(c *Config, v string) error { c.Auth.Type = v; return nil }},
	{"RESTAPP_API_KEYS", func(c *Config, v string) error {
		var keys []APIKeyConfig
		if err := json.Unmarshal([]byte(v), &keys); err != nil {
			return fmt.Errorf("parsing API keys JSON: %w", err)
		}
		if len(keys) > 0 {
			c.Auth.APIKeys = keys
		}
		return nil
	}},
	{"RESTAPP_STORAGE", func(c *Config, v string) error { c.Storage.Type = v; return nil }},
	{"RESTAPP_STORAGE_SIZE", func(c *Config, v string) error { return setInt(&c.Storage.MaxSize, v) }},
	{"RESTAPP_POSTGRES_DSN", func(c *Config, v string) error { c.Storage.Postgres.DSN = v; return nil }},
	{"RESTAPP_REDIS_ADDR", func(c *Config, v string) error { c.Auth.RateLimit.Redis.Addr = v; return nil }},
	{"RESTAPP_LAMBDA_PROXY_SOURCE", func(c *Config, v string) error { c.Lambda.ProxySource = v; return nil }},
	{"SENTRY_DSN", func(c *Config, v string) error { c.Observability.Sentry.DSN = v; return nil }},
	{"SENTRY_ENVIRONMENT", func(c *Config, v string) error { c.Observability.Sentry.Environment = v; return nil }},
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

// secretRef points a *_file setting at the value it fills. The file is
// read only when the value itself is empty.
type secretRef struct {
	field string
	file  string
	dst   *string
}

func secretRefs(cfg *Config) []secretRef {
	refs := []secretRef{{"storage.postgres.dsn_file", cfg.Storage.Postgres.DSNFile, &cfg.Storage.Postgres.DSN}}
	for i := range cfg.Auth.APIKeys {
		k := &cfg.Auth.APIKeys[i]
		refs = append(refs, secretRef{fmt.Sprintf("auth.api_keys[%d].key_file", i), k.KeyFile, &k.Key})
	}
	return refs
}
