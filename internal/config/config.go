package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "LODQA_CONFIG"

// Config is the root application configuration.
type Config struct {
	Parser ParserConfig `yaml:"parser"`
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
	Batch  BatchConfig  `yaml:"batch"`
}

// ParserConfig selects the parser vendor and its service endpoints.
type ParserConfig struct {
	Vendor   string        `yaml:"vendor"    env:"LODQA_PARSER"           env-default:"enju"`
	EnjuURL  string        `yaml:"enju_url"  env:"LODQA_ENJU_URL"         env-default:"http://bionlp.dbcls.jp/enju"`
	SpacyURL string        `yaml:"spacy_url" env:"LODQA_SPACY_URL"        env-default:"http://spacy.dbcls.jp/spacy_rest"`
	Timeout  time.Duration `yaml:"timeout"   env:"LODQA_PARSER_TIMEOUT"   env-default:"30s"`
}

// ServerConfig holds push server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"LODQA_ADDR"             env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"LODQA_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StoreConfig selects the PGP archive. Kind is "none", "memory" or "kuzu";
// Path is the Kuzu database directory, empty for an in-memory Kuzu database.
type StoreConfig struct {
	Kind string `yaml:"kind" env:"LODQA_STORE"      env-default:"none"`
	Path string `yaml:"path" env:"LODQA_STORE_PATH"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LODQA_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LODQA_LOG_FORMAT" env-default:"text"`
}

// BatchConfig bounds concurrent graphication of several questions.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" env:"LODQA_BATCH_CONCURRENCY" env-default:"4"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The file is path, or the LODQA_CONFIG env when path is empty. Without
// either, configuration comes from ENV and defaults only. A named file that
// does not exist is an error.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv(EnvPath)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration built from defaults and ENV only.
func Default() (*Config, error) {
	return Load("")
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: marshal yaml: %w", err)
	}
	return out, nil
}
