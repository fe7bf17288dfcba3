package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate checks the configuration for required fields and valid values.
// All problems are reported together, each with its field path.
func (c *Config) Validate() error {
	var errs []error
	check := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	require := func(cond bool, format string, args ...any) {
		if !cond {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	require(c.Server.Port > 0, "server.port must be > 0, got %d", c.Server.Port)
	require(c.Server.MaxBodySize > 0, "server.max_body_size must be > 0, got %d", c.Server.MaxBodySize)
	check(oneOf("lambda.proxy_source", c.Lambda.ProxySource, "API_GW_V1", "API_GW_V2", "ALB"))

	check(oneOf("auth.type", c.Auth.Type, "none", "apikey", "jwt"))
	if c.Auth.Type == "jwt" {
		require(c.Auth.JWT.JWKSURL != "", "auth.jwt.jwks_url is required when auth.type is \"jwt\"")
	}
	for i, k := range c.Auth.APIKeys {
		require(k.Subject != "", "auth.api_keys[%d].subject is required", i)
	}

	rl := c.Auth.RateLimit
	check(oneOf("auth.rate_limit.backend", rl.Backend, "memory", "redis"))
	if rl.Backend == "redis" {
		require(rl.Redis.Addr != "", "auth.rate_limit.redis.addr is required when auth.rate_limit.backend is \"redis\"")
	}
	for tier, rpm := range rl.Tiers {
		require(rpm >= 0, "auth.rate_limit.tiers.%s must be >= 0, got %d", tier, rpm)
	}

	check(oneOf("storage.type", c.Storage.Type, "memory", "postgres"))
	if c.Storage.Type == "postgres" {
		pg := c.Storage.Postgres
		require(pg.DSN != "" || pg.DSNFile != "",
			"storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\"")
	}

	return errors.Join(errs...)
}

func oneOf(field, got string, allowed ...string) error {
	if slices.Contains(allowed, got) {
		return nil
	}
	quoted := make([]string, len(allowed))
	for i, a := range allowed {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(quoted, ", "), got)
}
