package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls digest presentation. All fields are optional; zero values
// fall back to the defaults below.
type Config struct {
	Title        string `yaml:"title"`
	Organization string `yaml:"organization"`
	WindowLabel  string `yaml:"window_label"`
}

const (
	defaultTitle       = "PartnerAI Intelligence Report"
	defaultWindowLabel = "last 30 days"
)

// LoadConfig reads a YAML report configuration. An empty path yields the
// default configuration.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read report config: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse report config: %w", err)
	}

	if config.Title == "" {
		config.Title = defaultTitle
	}
	if config.WindowLabel == "" {
		config.WindowLabel = defaultWindowLabel
	}

	return config, nil
}

func DefaultConfig() Config {
	return Config{
		Title:       defaultTitle,
		WindowLabel: defaultWindowLabel,
	}
}
