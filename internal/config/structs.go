package config

// Config is the root configuration for docsight. Fields are tagged for
// viper (mapstructure), YAML config files, and JSON dumps.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" json:"output"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
}

// PipelineConfig configures parsing and extraction.
type PipelineConfig struct {
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract" json:"extract"`
	Canvas  CanvasConfig  `mapstructure:"canvas" yaml:"canvas" json:"canvas"`

	CacheEnabled bool `mapstructure:"cache_enabled" yaml:"cache_enabled" json:"cache_enabled"`
}

// ExtractConfig configures the metric extraction engine.
type ExtractConfig struct {
	// RulesPath points to a YAML file of metric rules. Empty means the
	// built-in rule set.
	RulesPath string `mapstructure:"rules_path" yaml:"rules_path" json:"rules_path"`

	LabelColumn int `mapstructure:"label_column" yaml:"label_column" json:"label_column"`

	// ValueColumn selects the table column holding metric values.
	// -1 scans columns right to left for the first numeric cell.
	ValueColumn int `mapstructure:"value_column" yaml:"value_column" json:"value_column"`
}

// CanvasConfig sets the placeholder page size used when a document
// carries no page bounding box.
type CanvasConfig struct {
	Width  int `mapstructure:"width" yaml:"width" json:"width"`
	Height int `mapstructure:"height" yaml:"height" json:"height"`
}

// OutputConfig configures CLI output handling.
type OutputConfig struct {
	Format     string `mapstructure:"format" yaml:"format" json:"format"`
	File       string `mapstructure:"file" yaml:"file" json:"file"`
	OverlayDir string `mapstructure:"overlay_dir" yaml:"overlay_dir" json:"overlay_dir"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	OverlayEnabled  bool   `mapstructure:"overlay_enabled" yaml:"overlay_enabled" json:"overlay_enabled"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig configures per-client request limits on the upload
// endpoints. Zero values disable the individual checks.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerHour   int  `mapstructure:"requests_per_hour" yaml:"requests_per_hour" json:"requests_per_hour"`
	MaxRequestsPerDay int  `mapstructure:"max_requests_per_day" yaml:"max_requests_per_day" json:"max_requests_per_day"`
	MaxDataMBPerDay   int  `mapstructure:"max_data_mb_per_day" yaml:"max_data_mb_per_day" json:"max_data_mb_per_day"`
}
