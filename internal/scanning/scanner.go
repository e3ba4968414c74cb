package scanning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zombor/slip-ocr/internal/parsing"
)

var (
	// ErrInvalidMediaType is returned for uploads outside the allowed media types
	ErrInvalidMediaType = errors.New("only JPG, JPEG, PNG, HEIC, HEIF and PDF files are allowed")

	// ErrUnreadableImage is returned when an upload cannot be decoded
	ErrUnreadableImage = errors.New("unreadable image")
)

// allowedMediaTypes are accepted as-is or converted to PNG before OCR
var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/heic":      true,
	"image/heif":      true,
	"application/pdf": true,
}

// Engine defines the interface for OCR engines
type Engine interface {
	// Recognize runs OCR over an image and returns the recognized document
	Recognize(ctx context.Context, imageData []byte, contentType string) (*parsing.Document, error)
	// Close closes the engine and releases resources
	Close() error
}

// OCRError reports a failure of the upstream OCR engine
type OCRError struct {
	Engine  string
	Message string
	Err     error
}

func (e *OCRError) Error() string {
	return fmt.Sprintf("%s OCR error: %s", e.Engine, e.Message)
}

func (e *OCRError) Unwrap() error {
	return e.Err
}

// ValidateMediaType rejects content types the engines cannot handle
func ValidateMediaType(contentType string) error {
	mimeType := normalizeMimeType(contentType)
	if !allowedMediaTypes[mimeType] {
		return fmt.Errorf("%w: %q", ErrInvalidMediaType, contentType)
	}
	return nil
}

// normalizeMimeType lowercases and drops parameters such as "; charset=..."
func normalizeMimeType(contentType string) string {
	mimeType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mimeType))
}
