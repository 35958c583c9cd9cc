package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces the override variables, e.g. STOREVISIT_MODEL_PROVIDER.
const envPrefix = "STOREVISIT"

// envOverrides lists the settings that may be overridden from the
// environment. Nil fields were not set.
type envOverrides struct {
	DataDir            *string  `envconfig:"DATA_DIR"`
	LogDir             *string  `envconfig:"LOG_DIR"`
	TaxonomyPath       *string  `envconfig:"TAXONOMY_PATH"`
	ClampConfidence    *bool    `envconfig:"CLAMP_CONFIDENCE"`
	NormalizeUnicode   *bool    `envconfig:"NORMALIZE_UNICODE"`
	BaseConfidence     *float64 `envconfig:"BASE_CONFIDENCE"`
	KeywordStep        *float64 `envconfig:"KEYWORD_STEP"`
	FallbackTranscript *string  `envconfig:"FALLBACK_TRANSCRIPT"`
	MaxRecords         *int     `envconfig:"MAX_RECORDS"`
	ModelProvider      *string  `envconfig:"MODEL_PROVIDER"`
	ModelAPIKey        *string  `envconfig:"MODEL_API_KEY"`
	ModelBaseURL       *string  `envconfig:"MODEL_BASE_URL"`
	ModelName          *string  `envconfig:"MODEL"`
	RequestsPerMinute  *int     `envconfig:"REQUESTS_PER_MINUTE"`
	LogFormat          *string  `envconfig:"LOG_FORMAT"`
	LogLevel           *string  `envconfig:"LOG_LEVEL"`
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("process environment overrides: %w", err)
	}
	setString(&c.Paths.DataDir, env.DataDir)
	setString(&c.Paths.LogDir, env.LogDir)
	setString(&c.Taxonomy.Path, env.TaxonomyPath)
	setBool(&c.Classifier.ClampConfidence, env.ClampConfidence)
	setBool(&c.Classifier.NormalizeUnicode, env.NormalizeUnicode)
	setFloat(&c.Classifier.BaseConfidence, env.BaseConfidence)
	setFloat(&c.Classifier.KeywordStep, env.KeywordStep)
	setString(&c.Classifier.FallbackTranscript, env.FallbackTranscript)
	setInt(&c.Store.MaxRecords, env.MaxRecords)
	setString(&c.Model.Provider, env.ModelProvider)
	setString(&c.Model.APIKey, env.ModelAPIKey)
	setString(&c.Model.BaseURL, env.ModelBaseURL)
	setString(&c.Model.Model, env.ModelName)
	setInt(&c.Model.RequestsPerMinute, env.RequestsPerMinute)
	setString(&c.Logging.Format, env.LogFormat)
	setString(&c.Logging.Level, env.LogLevel)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
