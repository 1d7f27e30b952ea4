package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docsight/docsight/internal/doctags"
	"github.com/docsight/docsight/internal/pdf"
	"github.com/docsight/docsight/internal/pipeline"
	"github.com/docsight/docsight/internal/version"
)

const (
	formatText = "text"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// rulesHandler returns the active metric rule set.
func (s *Server) rulesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rules := s.pipeline.Config().Extract.Rules
	infos := make([]RuleInfo, len(rules))
	for i, rule := range rules {
		infos[i] = RuleInfo{
			Name:       rule.Name,
			Keywords:   rule.Keywords,
			Pattern:    rule.Pattern.String(),
			ValueGroup: rule.ValueGroup,
		}
	}

	response := RulesResponse{
		Rules: infos,
		Count: len(infos),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding rules response: %v\n", err)
	}
}

// extractHandler processes DocTags extraction requests.
func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Set content length limit
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "request body too large") {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		return
	}

	input, ok := s.readDocTagsInput(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, err := s.processor.Process(input)
	duration := time.Since(start)

	if err != nil {
		extractRequestsTotal.WithLabelValues("http", "error").Inc()
		var malformed *doctags.MalformedDocumentError
		if errors.As(err, &malformed) {
			s.writeErrorResponse(w, fmt.Sprintf("Malformed document: %v", err), http.StatusUnprocessableEntity)
			return
		}
		s.writeErrorResponse(w, fmt.Sprintf("Extraction failed: %v", err), http.StatusInternalServerError)
		return
	}

	extractRequestsTotal.WithLabelValues("http", "success").Inc()
	extractDuration.WithLabelValues("http").Observe(duration.Seconds())
	metricsResolved.Observe(float64(res.Metrics.Len()))
	tablesParsed.Observe(float64(len(res.Document.Tables)))

	s.writeExtractResult(w, r, res)
}

// readDocTagsInput pulls the DocTags payload from the multipart form.
// The "sample" field substitutes the built-in demo document.
func (s *Server) readDocTagsInput(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.FormValue("sample") == "1" {
		return doctags.SampleDocTags(), true
	}

	file, header, err := r.FormFile("doctags")
	if err != nil {
		s.writeErrorResponse(w, "No DocTags file provided", http.StatusBadRequest)
		return "", false
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return "", false
	}
	uploadSizeBytes.Observe(float64(header.Size))

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read DocTags data", http.StatusInternalServerError)
		return "", false
	}
	return string(data), true
}

// writeExtractResult writes the result in the requested format.
// Default is json; 'format' may come from the form or the query string.
func (s *Server) writeExtractResult(w http.ResponseWriter, r *http.Request, res *pipeline.Result) {
	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(res.CSV))
	case formatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		s.writeTextResult(w, res)
	case "overlay":
		s.writeOverlayResult(w, r, res)
	default:
		w.Header().Set("Content-Type", "application/json")
		response := ExtractResponse{Success: true, Result: res}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding extract response: %v\n", err)
		}
	}
}

// writeTextResult writes a plain text summary of an extraction result.
func (s *Server) writeTextResult(w http.ResponseWriter, res *pipeline.Result) {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("Tables: %d\n", len(res.Document.Tables)))
	output.WriteString(fmt.Sprintf("Text Blocks: %d\n", len(res.Document.TextBlocks)))
	output.WriteString(fmt.Sprintf("Key Metrics: %d\n\n", res.Metrics.Len()))

	for _, name := range res.Metrics.Names() {
		value, _ := res.Metrics.Get(name)
		output.WriteString(fmt.Sprintf("  %s: %s\n", name, value))
	}

	if _, err := w.Write([]byte(output.String())); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing response: %v\n", err)
	}
}

// writeOverlayResult renders the annotated page as a PNG.
func (s *Server) writeOverlayResult(w http.ResponseWriter, r *http.Request, res *pipeline.Result) {
	if !s.overlayEnabled {
		http.Error(w, "overlay output disabled", http.StatusForbidden)
		return
	}

	page := 0
	if v := r.FormValue("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 0 {
			s.writeErrorResponse(w, "Invalid page number", http.StatusBadRequest)
			return
		}
		page = p
	}

	img := s.pipeline.Overlay(res, page)
	if img == nil {
		http.Error(w, "overlay failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_ = png.Encode(w, img)
}

// pdfInfoHandler inspects an uploaded PDF and reports its page count.
func (s *Server) pdfInfoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "request body too large") {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		s.writeErrorResponse(w, "No PDF file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read PDF data", http.StatusInternalServerError)
		return
	}

	info, err := pdf.Inspect(data)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid PDF: %v", err), http.StatusBadRequest)
		return
	}

	// An optional page form value asks whether that page exists
	if pageStr := r.FormValue("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			s.writeErrorResponse(w, "Invalid page number", http.StatusBadRequest)
			return
		}
		if err := pdf.CheckPage(data, page); err != nil {
			s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	response := PDFInfoResponse{Success: true, PageCount: info.PageCount}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding PDF info response: %v\n", err)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ExtractResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
