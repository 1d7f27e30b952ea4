package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/docsight/docsight/internal/doctags"
	"github.com/docsight/docsight/internal/pipeline"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketExtractRequest represents an extraction request via WebSocket.
type WebSocketExtractRequest struct {
	Type    string `json:"type"` // "extract" or "sample"
	DocTags string `json:"doctags,omitempty"`
}

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// WebSocketExtractResponse represents an extraction response via WebSocket.
type WebSocketExtractResponse struct {
	Type      string           `json:"type"`
	Status    string           `json:"status"` // "processing", "completed", "error"
	Stage     string           `json:"stage,omitempty"`
	Progress  float64          `json:"progress,omitempty"`
	Result    *pipeline.Result `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
	ErrorType string           `json:"error_type,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
}

// stageProgress maps pipeline stages to coarse progress values.
var stageProgress = map[pipeline.Stage]float64{
	pipeline.StageParse:   0.25,
	pipeline.StageExtract: 0.5,
	pipeline.StageProject: 0.75,
}

// extractWebSocketHandler handles WebSocket connections for streaming extraction.
func (s *Server) extractWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send ping messages to keep connection alive
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage processes a WebSocket message.
func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req WebSocketExtractRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}

	// Generate a request ID for tracking
	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	var input string
	switch req.Type {
	case "extract":
		if req.DocTags == "" {
			s.sendWebSocketError(conn, "invalid_request", "No DocTags content provided")
			return
		}
		input = req.DocTags
	case "sample":
		input = doctags.SampleDocTags()
	default:
		s.sendWebSocketError(conn, "invalid_request", "Unsupported request type: "+req.Type)
		return
	}

	s.processWebSocketExtract(conn, input, requestID)
}

// processWebSocketExtract runs the pipeline and streams per-stage progress.
func (s *Server) processWebSocketExtract(conn *websocket.Conn, input, requestID string) {
	s.sendWebSocketResponse(conn, WebSocketExtractResponse{
		Type:      "extract_response",
		Status:    "processing",
		Progress:  0.0,
		RequestID: requestID,
	})

	start := time.Now()
	res, err := s.pipeline.ProcessWithProgress(input, func(stage pipeline.Stage) {
		s.sendWebSocketResponse(conn, WebSocketExtractResponse{
			Type:      "extract_response",
			Status:    "processing",
			Stage:     string(stage),
			Progress:  stageProgress[stage],
			RequestID: requestID,
		})
	})
	duration := time.Since(start)

	if err != nil {
		extractRequestsTotal.WithLabelValues("websocket", "error").Inc()
		errorType := "processing_error"
		var malformed *doctags.MalformedDocumentError
		if errors.As(err, &malformed) {
			errorType = "malformed_document"
		}
		s.sendWebSocketError(conn, errorType, fmt.Sprintf("Extraction failed: %v", err))
		return
	}

	extractRequestsTotal.WithLabelValues("websocket", "success").Inc()
	extractDuration.WithLabelValues("websocket").Observe(duration.Seconds())
	metricsResolved.Observe(float64(res.Metrics.Len()))
	tablesParsed.Observe(float64(len(res.Document.Tables)))

	s.sendWebSocketResponse(conn, WebSocketExtractResponse{
		Type:      "extract_response",
		Status:    "completed",
		Progress:  1.0,
		Result:    res,
		RequestID: requestID,
	})
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn WebSocketConnWriter, response WebSocketExtractResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, errorType, message string) {
	response := WebSocketExtractResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
	}

	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket error response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket error message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
