package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/docsight/docsight/internal/pipeline"
)

// processorInterface defines the methods needed by the server from a pipeline.
type processorInterface interface {
	Process(input string) (*pipeline.Result, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	pipeline       *pipeline.Pipeline
	processor      processorInterface
	rateLimiter    *RateLimiter
	corsOrigin     string
	maxUploadMB    int64
	timeoutSec     int
	overlayEnabled bool
}

// Config holds server configuration.
type Config struct {
	Host                string
	Port                int
	CORSOrigin          string
	MaxUploadMB         int64
	TimeoutSec          int
	PipelineConfig      pipeline.Config
	CacheEnabled        bool
	OverlayEnabled      bool
	RateLimitEnabled    bool
	RateLimitPerMinute  int
	RateLimitPerHour    int
	QuotaRequestsPerDay int
	QuotaBytesPerDay    int64
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type RuleInfo struct {
	Name       string   `json:"name"`
	Keywords   []string `json:"keywords"`
	Pattern    string   `json:"pattern"`
	ValueGroup int      `json:"value_group"`
}

type RulesResponse struct {
	Rules []RuleInfo `json:"rules"`
	Count int        `json:"count"`
}

type ExtractResponse struct {
	Success bool             `json:"success"`
	Result  *pipeline.Result `json:"result,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type PDFInfoResponse struct {
	Success   bool   `json:"success"`
	PageCount int    `json:"page_count,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewServer creates a new extraction server instance.
func NewServer(config Config) (*Server, error) {
	b := pipeline.NewBuilder().
		WithRules(config.PipelineConfig.Extract.Rules).
		WithLabelColumn(config.PipelineConfig.Extract.LabelColumn).
		WithValueColumn(config.PipelineConfig.Extract.ValueColumn).
		WithCanvasSize(config.PipelineConfig.CanvasWidth, config.PipelineConfig.CanvasHeight)

	pl, err := b.Build()
	if err != nil {
		return nil, err
	}

	var processor processorInterface = pl
	if config.CacheEnabled {
		processor = pipeline.NewCache(pl)
	}

	var limiter *RateLimiter
	if config.RateLimitEnabled {
		limiter = NewRateLimiter(config.RateLimitPerMinute, config.RateLimitPerHour,
			config.QuotaRequestsPerDay, config.QuotaBytesPerDay)
	}

	return &Server{
		pipeline:       pl,
		processor:      processor,
		rateLimiter:    limiter,
		corsOrigin:     config.CORSOrigin,
		maxUploadMB:    config.MaxUploadMB,
		timeoutSec:     config.TimeoutSec,
		overlayEnabled: config.OverlayEnabled,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/rules", s.corsMiddleware(s.rulesHandler))
	mux.HandleFunc("/extract", s.corsMiddleware(s.rateLimitMiddleware(s.extractHandler)))
	mux.HandleFunc("/pdf/info", s.corsMiddleware(s.rateLimitMiddleware(s.pdfInfoHandler)))
	mux.HandleFunc("/ws", s.extractWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
