package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct .env file path (optional)
}

// Option is a functional option for Load.
type Option func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load loads configuration for the named application into cfg.
// It searches for config.yml and .env files in standard locations, binds
// environment variables with the upper-cased name as prefix, and unmarshals
// the result into cfg.
func Load(name string, cfg any, opts ...Option) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.ConfigFile == "" {
		lc.ConfigFile = findFirst(
			fmt.Sprintf("./%s.yml", name),
			fmt.Sprintf("./config/%s.yml", name),
			"./config.yml",
			"./config/config.yml",
		)
	}
	if lc.EnvFile == "" {
		lc.EnvFile = findFirst(fmt.Sprintf(".env.%s", name), ".env")
	}

	if lc.EnvFile != "" {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", lc.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(name))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about, so env-only
	// keys would never reach the struct. Bind prefixed env vars explicitly.
	bindEnvOverrides(v, name)

	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", lc.ConfigFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshaling config for %s: %w", name, err)
	}
	return nil
}

// bindEnvOverrides sets every environment variable carrying the application
// prefix into viper under each nested key form it could correspond to.
// NAME_LOGGING_NO_COLOR becomes logging.no_color, logging.no.color, and so
// on; unmarshal picks up whichever matches the struct tags.
func bindEnvOverrides(v *viper.Viper, name string) {
	prefix := strings.ToUpper(name) + "_"
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], prefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(pair[0], prefix))
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, pair[1])
		}
	}
}

// envKeyVariants generates the nested key forms an underscore-delimited env
// key can take.
func envKeyVariants(lowerKey string) []string {
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{lowerKey, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}

	seen := make(map[string]bool, len(variants))
	out := make([]string, 0, len(variants))
	for _, variant := range variants {
		if seen[variant] {
			continue
		}
		seen[variant] = true
		out = append(out, variant)
	}
	return out
}

func findFirst(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
