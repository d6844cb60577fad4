package bot

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	coreconfig "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/config"
	coredatabase "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/database"
)

// DefaultConfigPath is read when CONFIG_PATH is unset. The file is optional.
const DefaultConfigPath = "config.yaml"

// Config carries the core settings plus the journal database.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core configuration to the runner.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Config }

// LoadConfig reads .env, the optional YAML file at path and the environment, in that order.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if err := coreconfig.LoadEnvFile(""); err != nil {
		return nil, err
	}
	if err := coreconfig.ReadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	return &cfg, nil
}
