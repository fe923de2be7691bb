package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Sauham/paper-bias-detection/internal/domain"
	"github.com/Sauham/paper-bias-detection/internal/extraction"
)

// uploadFieldName is the multipart form field carrying the document.
const uploadFieldName = "file"

// analyzeTextRequest is the JSON request body for analyzing raw text
// directly, without a file upload.
type analyzeTextRequest struct {
	Text string `json:"text"`
}

// analyzeResponse wraps the analysis report with extraction diagnostics.
type analyzeResponse struct {
	*domain.AnalysisReport
	Warnings []string `json:"warnings,omitempty"`
}

// analyzeHandler handles POST /api/v1/analyze. It accepts either a
// multipart upload with a "file" field (PDF or plain text) or a JSON
// body with a "text" field.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var text string
	var warnings []string

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		extracted, extractionWarnings, ok := s.readUpload(w, r)
		if !ok {
			return
		}
		text = extracted
		warnings = extractionWarnings

	case strings.HasPrefix(contentType, "application/json"), contentType == "":
		body, err := io.ReadAll(io.LimitReader(r.Body, s.config.MaxUploadBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		var req analyzeTextRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON request body")
			return
		}
		text = req.Text

	default:
		writeError(w, http.StatusUnsupportedMediaType, "expected multipart/form-data or application/json")
		return
	}

	if strings.TrimSpace(text) == "" {
		s.writeAnalysisError(w, domain.NewValidationError("text", "document contains no analyzable text"))
		return
	}

	report, err := s.service.AnalyzeText(ctx, text)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		AnalysisReport: report,
		Warnings:       warnings,
	})
}

// writeAnalysisError maps analysis errors to HTTP statuses. Invalid
// input is the caller's fault; anything else is a server failure.
func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error().Err(err).Msg("analysis failed")
	writeError(w, http.StatusInternalServerError, "analysis failed")
}

// readUpload extracts text from a multipart file upload. On failure it
// writes the HTTP error itself and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (text string, warnings []string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		return "", nil, false
	}

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload field 'file'")
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return "", nil, false
	}

	result, err := s.extractor.Extract(data, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, extraction.ErrUnsupportedFormat):
			writeError(w, http.StatusUnsupportedMediaType, "unsupported file format, upload a PDF or plain text file")
		case errors.Is(err, extraction.ErrNoText):
			writeError(w, http.StatusUnprocessableEntity, "no extractable text found in document")
		default:
			s.logger.Warn().Err(err).Str("filename", header.Filename).Msg("extraction failed")
			writeError(w, http.StatusUnprocessableEntity, "failed to extract text from document")
		}
		return "", nil, false
	}

	if result.Weak {
		warnings = append(warnings, "extracted text is very short; the document may be scanned or image-based")
	}
	return result.Text, warnings, true
}
