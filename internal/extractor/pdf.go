package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

type pdfPages struct {
	r *pdf.Reader
}

// PageText returns the plain text of the 1-based page n. The parser panics on some
// malformed content streams, those panics are turned into errors.
func (p pdfPages) PageText(n int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	page := p.r.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func (p pdfPages) NumPage() int {
	return p.r.NumPage()
}

func (e *Extractor) extractPDF(data []byte, l *zap.Logger) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: pdf parser panic: %v", ErrCorruptDocument, rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrCorruptDocument, err)
	}
	return joinPages(pdfPages{r: r}, l), nil
}

// joinPages concatenates page texts. A failed page leaves an inline marker instead of
// aborting the document.
func joinPages(src pageSource, l *zap.Logger) string {
	var builder strings.Builder
	for n := 1; n <= src.NumPage(); n++ {
		text, err := src.PageText(n)
		if err != nil {
			l.Warn("pdf page extraction failed", zap.Int("page", n), zap.Error(err))
			text = fmt.Sprintf("[Error extracting page %d: %v]", n, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String()
}
