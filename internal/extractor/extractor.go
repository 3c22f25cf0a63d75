package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/lexnorm/internal/logger"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrUnsupportedEncoding = errors.New("unsupported text encoding")
	ErrEmptyExtraction     = errors.New("no text could be extracted")
	ErrCorruptDocument     = errors.New("document could not be opened")
)

// Extractor turns uploaded documents into plain text.
// Everything happens in memory, nothing is staged on disk.
type Extractor struct {
	logger *zap.Logger
}

func New(l *zap.Logger) *Extractor {
	return &Extractor{logger: logger.WithComponent(l, "extractor")}
}

// Extract dispatches on the lower-cased file extension and returns trimmed, non-empty text.
func (e *Extractor) Extract(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	l := e.logger.With(zap.String("file", filename), zap.String("ext", ext), zap.Int("size", len(data)))

	var (
		text string
		err  error
	)

	switch ext {
	case ".txt", ".md":
		text, err = decodeText(data)
	case ".pdf":
		text, err = e.extractPDF(data, l)
	case ".docx":
		text, err = extractDOCX(data)
	default:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
		}
		text = string(data)
	}
	if err != nil {
		l.Warn("text extraction failed", zap.Error(err))
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w from %s", ErrEmptyExtraction, filename)
	}

	l.Debug("text extracted", zap.Int("length", utf8.RuneCountInString(text)))

	return text, nil
}
