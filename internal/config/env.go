package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/vango-dev/vroute/internal/errors"
)

// Environment variables read by ApplyEnv.
const (
	EnvBaseURL          = "BASE_URL"
	EnvHost             = "VROUTE_HOST"
	EnvPort             = "VROUTE_PORT"
	EnvMetrics          = "VROUTE_METRICS"
	EnvModulesSource    = "VROUTE_MODULES_SOURCE"
	EnvModulesDir       = "VROUTE_MODULES_DIR"
	EnvModulesBucket    = "VROUTE_MODULES_BUCKET"
	EnvModulesPrefix    = "VROUTE_MODULES_PREFIX"
	EnvModulesRegion    = "VROUTE_MODULES_REGION"
	EnvModulesEndpoint  = "VROUTE_MODULES_ENDPOINT"
	EnvModulesAccessKey = "VROUTE_MODULES_ACCESS_KEY"
	EnvModulesSecretKey = "VROUTE_MODULES_SECRET_KEY"
)

// LoadEnv loads .env files into the process environment. Variables that
// are already set win. With no paths it loads ./.env if present.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		paths = []string{".env"}
	}
	if err := godotenv.Load(paths...); err != nil {
		return errors.New("E102").Wrap(err)
	}
	return nil
}

// ApplyEnv overrides fields from the process environment.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	str(EnvBaseURL, &c.Base)
	str(EnvHost, &c.Host)
	str(EnvModulesSource, &c.Modules.Source)
	str(EnvModulesDir, &c.Modules.Dir)
	str(EnvModulesBucket, &c.Modules.S3.Bucket)
	str(EnvModulesPrefix, &c.Modules.S3.Prefix)
	str(EnvModulesRegion, &c.Modules.S3.Region)
	str(EnvModulesEndpoint, &c.Modules.S3.Endpoint)
	str(EnvModulesAccessKey, &c.Modules.S3.AccessKey)
	str(EnvModulesSecretKey, &c.Modules.S3.SecretKey)

	if v, ok := lookup(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E103").
				Wrap(err).
				WithDetail(EnvPort + " must be a number, got " + strconv.Quote(v))
		}
		c.Port = port
	}
	if v, ok := lookup(EnvMetrics); ok {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("E500").
				Wrap(err).
				WithDetail(EnvMetrics + " must be a boolean, got " + strconv.Quote(v))
		}
		c.Metrics = on
	}
	return nil
}
