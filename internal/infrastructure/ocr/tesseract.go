package ocr

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/grocyscan/backend/internal/domain"
	"github.com/otiai10/gosseract/v2"
)

// TesseractProvider reads receipt images with Tesseract via gosseract
type TesseractProvider struct {
	language       string
	tessdataPrefix string
	clientFactory  func() *gosseract.Client
}

// NewTesseractProvider creates an OCR provider for the given Tesseract language
// (e.g. "deu"). An empty tessdataPrefix keeps Tesseract's own lookup.
func NewTesseractProvider(language, tessdataPrefix string) *TesseractProvider {
	if language == "" {
		language = "deu"
	}
	return &TesseractProvider{
		language:       language,
		tessdataPrefix: tessdataPrefix,
		clientFactory:  gosseract.NewClient,
	}
}

// ExtractText returns the receipt text of an encoded image
func (p *TesseractProvider) ExtractText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", domain.ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := p.clientFactory()
	defer client.Close()

	if p.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(p.tessdataPrefix); err != nil {
			return "", fmt.Errorf("%w: set tessdata prefix: %v", domain.ErrOCRFailure, err)
		}
	}
	if err := client.SetLanguage(p.language); err != nil {
		return "", fmt.Errorf("%w: set language: %v", domain.ErrOCRFailure, err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("%w: set image: %v", domain.ErrOCRFailure, err)
	}

	start := time.Now()
	log.Printf("[OCR] Starting recognition (%d bytes, lang %s)", len(image), p.language)
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}
	log.Printf("[OCR] Finished in %s (%d chars)", time.Since(start).Round(time.Millisecond), len(text))
	return text, nil
}
