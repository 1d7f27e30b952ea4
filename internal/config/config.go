// Package config loads and validates docsight configuration from files,
// environment variables, and defaults.
package config

import (
	"fmt"

	"github.com/docsight/docsight/internal/extract"
	"github.com/docsight/docsight/internal/pipeline"
	"github.com/docsight/docsight/internal/render"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validOutputFormats = map[string]bool{
	"json": true,
	"csv":  true,
	"text": true,
}

// DefaultConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Verbose:  false,
		Pipeline: PipelineConfig{
			Extract: ExtractConfig{
				LabelColumn: 0,
				ValueColumn: 1,
			},
			Canvas: CanvasConfig{
				Width:  render.DefaultPageWidth,
				Height: render.DefaultPageHeight,
			},
			CacheEnabled: true,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      120,
			ShutdownTimeout: 10,
			OverlayEnabled:  true,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerMinute: 60,
				RequestsPerHour:   1000,
				MaxRequestsPerDay: 10000,
				MaxDataMBPerDay:   500,
			},
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if c.Output.Format != "" && !validOutputFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format: %s", c.Output.Format)
	}
	if err := c.Pipeline.validate(); err != nil {
		return err
	}
	return c.Server.validate()
}

func (p *PipelineConfig) validate() error {
	if p.Extract.LabelColumn < 0 {
		return fmt.Errorf("label column must not be negative, got %d", p.Extract.LabelColumn)
	}
	if p.Extract.ValueColumn < extract.AutoValueColumn || p.Extract.ValueColumn == 0 {
		return fmt.Errorf("value column must be positive or %d for auto, got %d",
			extract.AutoValueColumn, p.Extract.ValueColumn)
	}
	if p.Extract.ValueColumn == p.Extract.LabelColumn {
		return fmt.Errorf("value column %d must differ from label column", p.Extract.ValueColumn)
	}
	if p.Canvas.Width <= 0 || p.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", p.Canvas.Width, p.Canvas.Height)
	}
	return nil
}

func (s *ServerConfig) validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", s.Port)
	}
	if s.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d MB", s.MaxUploadMB)
	}
	if s.TimeoutSec <= 0 {
		return fmt.Errorf("server timeout must be positive, got %d", s.TimeoutSec)
	}
	rl := s.RateLimit
	if rl.RequestsPerMinute < 0 || rl.RequestsPerHour < 0 ||
		rl.MaxRequestsPerDay < 0 || rl.MaxDataMBPerDay < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}
	return nil
}

// PipelineBuilder translates the configuration into a pipeline builder.
// Callers may chain further overrides before Build.
func (c *Config) PipelineBuilder() *pipeline.Builder {
	b := pipeline.NewBuilder().
		WithLabelColumn(c.Pipeline.Extract.LabelColumn).
		WithValueColumn(c.Pipeline.Extract.ValueColumn).
		WithCanvasSize(c.Pipeline.Canvas.Width, c.Pipeline.Canvas.Height)
	if c.Pipeline.Extract.RulesPath != "" {
		b = b.WithRulesFile(c.Pipeline.Extract.RulesPath)
	}
	return b
}
