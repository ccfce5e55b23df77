package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"tokenvault/internal/domain"
	"tokenvault/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. TOKENVAULT_STORE_PATH.
const EnvPrefix = "TOKENVAULT"

// Config is the root configuration.
type Config struct {
	Store      StoreConfig      `mapstructure:"store" yaml:"store"`
	KDF        KDFConfig        `mapstructure:"kdf" yaml:"kdf"`
	Lock       LockConfig       `mapstructure:"lock" yaml:"lock"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Passphrase PassphraseConfig `mapstructure:"passphrase" yaml:"passphrase"`
}

// StoreConfig locates the secret file.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// KDFConfig selects key derivation for newly sealed records.
type KDFConfig struct {
	Algorithm  string `mapstructure:"algorithm" yaml:"algorithm"`
	Iterations int    `mapstructure:"iterations" yaml:"iterations"`
}

// LockConfig bounds the wait for the store file lock.
type LockConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LogConfig controls logger verbosity.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// PassphraseConfig names the environment variable holding the vault
// passphrase. When it is unset the CLI prompts.
type PassphraseConfig struct {
	Env string `mapstructure:"env" yaml:"env"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.path", "~/.tokenvault/secrets.json")
	v.SetDefault("kdf.algorithm", string(domain.KDFPBKDF2SHA256))
	v.SetDefault("kdf.iterations", 600_000)
	v.SetDefault("lock.timeout", 10*time.Second)
	v.SetDefault("log.level", "warn")
	v.SetDefault("passphrase.env", EnvPrefix+"_PASSPHRASE")
}

// Load reads configuration.
// Priority: ENV > config file > defaults. An empty path or a missing file
// falls back to defaults; a file that fails to parse is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(expanded)
		if filepath.Ext(expanded) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", expanded, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	p, err := ExpandPath(c.Store.Path)
	if err != nil {
		return err
	}
	if p == "" {
		if p, err = DefaultStorePath(); err != nil {
			return err
		}
	}
	c.Store.Path = p

	switch domain.KDFAlgorithm(c.KDF.Algorithm) {
	case domain.KDFPBKDF2SHA256, domain.KDFScrypt:
	default:
		return fmt.Errorf("kdf.algorithm: unknown algorithm %q", c.KDF.Algorithm)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Lock.Timeout < 0 {
		return fmt.Errorf("lock.timeout: must not be negative")
	}
	return nil
}
