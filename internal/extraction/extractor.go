// Package extraction turns uploaded documents into plain text for the
// analysis pipeline.
package extraction

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/Sauham/paper-bias-detection/internal/observability"
)

// Sentinel errors for extraction operations.
var (
	// ErrUnsupportedFormat is returned for file types the extractor
	// cannot handle.
	ErrUnsupportedFormat = errors.New("extraction: unsupported file format")
	// ErrNoText is returned when a document yields no text at all.
	ErrNoText = errors.New("extraction: no extractable text found")
)

// WeakTextThreshold is the character count below which an extraction is
// flagged as weak. Scanned PDFs without a text layer typically land
// here; the caller decides whether to proceed or reject.
const WeakTextThreshold = 300

// Result holds extracted text and extraction diagnostics.
type Result struct {
	// Text is the extracted plain text.
	Text string
	// Pages is the page count for PDFs, zero for plain text input.
	Pages int
	// Weak reports that the text is shorter than WeakTextThreshold.
	Weak bool
}

// Extractor extracts text from uploaded files.
type Extractor struct {
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewExtractor creates an extractor. Metrics may be nil.
func NewExtractor(metrics *observability.Metrics, logger zerolog.Logger) *Extractor {
	return &Extractor{
		metrics: metrics,
		logger:  logger.With().Str("component", "extractor").Logger(),
	}
}

// Extract extracts text from the given file content. The filename's
// extension selects the decoder: .pdf is parsed page by page, .txt is
// taken as-is. Anything else returns ErrUnsupportedFormat.
func (e *Extractor) Extract(data []byte, filename string) (*Result, error) {
	var result *Result
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		result, err = e.extractPDF(data)
	case ".txt":
		result, err = e.extractPlain(data)
	default:
		e.record("failed")
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		e.record("failed")
		return nil, err
	}

	if len(result.Text) < WeakTextThreshold {
		result.Weak = true
		e.record("weak")
		e.logger.Warn().
			Str("filename", filename).
			Int("chars", len(result.Text)).
			Msg("extracted text below weak threshold")
	} else {
		e.record("ok")
	}
	return result, nil
}

// extractPDF reads every page's text layer. Pages that fail to decode
// are skipped; a PDF with no decodable text at all is an error.
func (e *Extractor) extractPDF(data []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			e.logger.Debug().Int("page", i).Err(pageErr).Msg("skipping unreadable page")
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, ErrNoText
	}
	return &Result{Text: text, Pages: total}, nil
}

// extractPlain treats the content as UTF-8 text.
func (e *Extractor) extractPlain(data []byte) (*Result, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, ErrNoText
	}
	return &Result{Text: text}, nil
}

func (e *Extractor) record(outcome string) {
	if e.metrics != nil {
		e.metrics.RecordExtraction(outcome)
	}
}
