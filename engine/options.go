package engine

import (
	"time"

	"github.com/tillerhq/tiller/dataset"
	"github.com/tillerhq/tiller/schema"
	"github.com/tillerhq/tiller/translator"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for New()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Generator        translator.Generator
	MaxRetries       int           // additional attempts after the first
	Timeout          time.Duration // wall clock ceiling per expression evaluation
	SampleRows       int           // rows shown to the generator
	Aliases          schema.Config // role spellings for resolving and formatting
	ResolverPatterns []string      // column extraction patterns, group 1 = name
}

// WithGenerator sets the expression generator. Without one the engine can
// only serve pre-written expressions via Evaluate.
func WithGenerator(g translator.Generator) Option {
	return func(c *config) { c.Generator = g }
}

// WithMaxRetries bounds the attempts made after the first generation.
// 2 means up to three generator calls per query.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.MaxRetries = n
		}
	}
}

// WithTimeout caps the wall clock time one expression may evaluate for.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

// WithSampleRows sets how many rows the schema sample shows the generator.
func WithSampleRows(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.SampleRows = n
		}
	}
}

// WithAliases replaces the default role alias groups.
func WithAliases(cfg schema.Config) Option {
	return func(c *config) { c.Aliases = cfg }
}

// WithResolverPatterns replaces the column extraction patterns. Each pattern
// must expose the column name as capture group 1.
func WithResolverPatterns(patterns ...string) Option {
	return func(c *config) { c.ResolverPatterns = patterns }
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		MaxRetries: 2,
		Timeout:    5 * time.Second,
		SampleRows: dataset.DefaultSampleRows,
		Aliases:    schema.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
