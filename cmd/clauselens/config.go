package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/veridian/clauselens/ai"
)

// fileConfig mirrors the optional YAML configuration file. Flags take
// precedence over file values, file values over built-in defaults.
type fileConfig struct {
	Database databaseConfig `yaml:"database"`
	AI       aiConfig       `yaml:"ai"`
}

type databaseConfig struct {
	Path       string `yaml:"path"`
	QuotaBytes int64  `yaml:"quota_bytes"`
}

type aiConfig struct {
	AnalyzerHost   string `yaml:"analyzer_host"`
	AssistantHost  string `yaml:"assistant_host"`
	AnalyzerModel  string `yaml:"analyzer_model"`
	AssistantModel string `yaml:"assistant_model"`
	APIToken       string `yaml:"api_token"`
}

// loadFileConfig reads and parses the config file at path.
func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// toAIConfig builds the service configuration from file values,
// leaving defaults in place for anything unset.
func (c *fileConfig) toAIConfig() *ai.Config {
	var opts []ai.ConfigOption
	if c.AI.AnalyzerHost != "" {
		opts = append(opts, ai.WithAnalyzerHost(c.AI.AnalyzerHost))
	}
	if c.AI.AssistantHost != "" {
		opts = append(opts, ai.WithAssistantHost(c.AI.AssistantHost))
	}
	if c.AI.AnalyzerModel != "" {
		opts = append(opts, ai.WithAnalyzerModel(c.AI.AnalyzerModel))
	}
	if c.AI.AssistantModel != "" {
		opts = append(opts, ai.WithAssistantModel(c.AI.AssistantModel))
	}
	if c.AI.APIToken != "" {
		opts = append(opts, ai.WithAPIToken(c.AI.APIToken))
	}
	return ai.NewConfig(opts...)
}
