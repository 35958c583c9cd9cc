package testsupport

import (
	"path/filepath"
	"testing"

	"storevisit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Logs go to the console only and no model provider is configured.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = ""
	cfgVal.Model.Provider = config.ProviderNone

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithCapacity caps the findings store and transcript log.
func WithCapacity(maxRecords, maxEntries int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.MaxRecords = maxRecords
		b.cfg.Store.MaxTranscriptEntries = maxEntries
	}
}

// WithClampedConfidence turns on the 1.0 keyword confidence cap.
func WithClampedConfidence() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Classifier.ClampConfidence = true
	}
}

// WithTaxonomyFile writes contents to a YAML file and points the config at it.
func WithTaxonomyFile(contents string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "taxonomy.yaml")
		WriteText(b.t, path, contents)
		b.cfg.Taxonomy.Path = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
