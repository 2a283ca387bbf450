package extractor

import (
	"context"
	"fmt"
	"strings"

	"gapguard-be/internal/apperror"
	"gapguard-be/internal/constant"
)

// TextExtractor obtains raw text from a document's binary content.
type TextExtractor interface {
	ExtractText(ctx context.Context, fileURL string, mimeType string) (string, error)
}

// Dispatcher routes extraction by MIME type: word-processor documents
// go to the structured DOCX extractor, PDFs and images go through
// vision OCR.
type Dispatcher struct {
	docx   TextExtractor
	vision TextExtractor
}

func NewDispatcher(docx TextExtractor, vision TextExtractor) TextExtractor {
	return &Dispatcher{
		docx:   docx,
		vision: vision,
	}
}

func (d *Dispatcher) ExtractText(ctx context.Context, fileURL string, mimeType string) (string, error) {
	switch {
	case mimeType == constant.MimeTypeDocx:
		return d.docx.ExtractText(ctx, fileURL, mimeType)
	case mimeType == "application/pdf" || strings.HasPrefix(mimeType, "image/"):
		return d.vision.ExtractText(ctx, fileURL, mimeType)
	default:
		return "", apperror.New(apperror.KindValidation,
			fmt.Sprintf("unsupported file type %s", mimeType))
	}
}
