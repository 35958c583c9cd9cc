package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateClassifier() error {
	if c.Classifier.BaseConfidence < 0 || c.Classifier.BaseConfidence > 1 {
		return errors.New("classifier.base_confidence must be between 0 and 1")
	}
	if c.Classifier.KeywordStep < 0 {
		return errors.New("classifier.keyword_step must be >= 0")
	}
	if c.Classifier.DedupPrefixLength < 0 {
		return errors.New("classifier.dedup_prefix_length must be positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.MaxRecords < 0 {
		return errors.New("store.max_records must be >= 0")
	}
	if c.Store.MaxTranscriptEntries < 0 {
		return errors.New("store.max_transcript_entries must be >= 0")
	}
	return nil
}

func (c *Config) validateModel() error {
	switch c.Model.Provider {
	case ProviderNone:
		return nil
	case ProviderOpenRouter, ProviderGemini:
	default:
		return fmt.Errorf("model.provider: unsupported value %q (want none, openrouter, or gemini)", c.Model.Provider)
	}
	if c.Model.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		envName := "OPENROUTER_API_KEY"
		if c.Model.Provider == ProviderGemini {
			envName = "GEMINI_API_KEY"
		}
		return fmt.Errorf("model.api_key is required for provider %s. Set %s or edit %s (create with 'storevisit config init')", c.Model.Provider, envName, defaultPath)
	}
	if strings.TrimSpace(c.Model.Model) == "" {
		return errors.New("model.model must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
