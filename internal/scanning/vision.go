package scanning

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/vision/v1"

	"github.com/zombor/slip-ocr/internal/parsing"
)

const (
	visionEngineName  = "vision"
	visionFeatureType = "DOCUMENT_TEXT_DETECTION"
)

// VisionConfig configures the Google Cloud Vision engine
type VisionConfig struct {
	// APIKey authenticates with an API key. When both APIKey and
	// CredentialsFile are empty, application default credentials are used.
	APIKey          string
	CredentialsFile string
	Endpoint        string
	LanguageHints   []string
	Enhance         bool
}

// Vision implements the Engine interface using Google Cloud Vision document
// text detection
type Vision struct {
	service       *vision.Service
	languageHints []string
	enhance       bool
}

// NewVision creates a new Vision engine. Extra client options are appended
// after the ones derived from cfg.
func NewVision(cfg VisionConfig, opts ...option.ClientOption) (*Vision, error) {
	var clientOpts []option.ClientOption
	switch {
	case cfg.APIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	case cfg.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := vision.NewService(context.Background(), clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}

	return &Vision{
		service:       service,
		languageHints: cfg.LanguageHints,
		enhance:       cfg.Enhance,
	}, nil
}

// Recognize runs document text detection over the image
func (v *Vision) Recognize(ctx context.Context, imageData []byte, contentType string) (*parsing.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	finalImageData, err := prepareImageData(imageData, contentType, v.enhance)
	if err != nil {
		return nil, err
	}

	request := &vision.AnnotateImageRequest{
		Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(finalImageData)},
		Features: []*vision.Feature{{Type: visionFeatureType}},
	}
	if len(v.languageHints) > 0 {
		request.ImageContext = &vision.ImageContext{LanguageHints: v.languageHints}
	}

	resp, err := v.service.Images.Annotate(&vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{request},
	}).Context(ctx).Do()
	if err != nil {
		return nil, &OCRError{Engine: visionEngineName, Message: err.Error(), Err: err}
	}

	if len(resp.Responses) == 0 {
		return nil, &OCRError{Engine: visionEngineName, Message: "no response from vision"}
	}

	annotation := resp.Responses[0]
	if annotation.Error != nil && annotation.Error.Message != "" {
		return nil, &OCRError{Engine: visionEngineName, Message: annotation.Error.Message}
	}

	return documentFromVision(annotation.FullTextAnnotation), nil
}

// Close is a no-op; the REST client holds no resources
func (v *Vision) Close() error {
	return nil
}

// documentFromVision copies the Vision layout tree into a parsing.Document
func documentFromVision(annotation *vision.TextAnnotation) *parsing.Document {
	doc := &parsing.Document{}
	if annotation == nil {
		return doc
	}
	doc.Text = annotation.Text

	for _, page := range annotation.Pages {
		if page == nil {
			continue
		}
		var p parsing.Page
		for _, block := range page.Blocks {
			if block == nil {
				continue
			}
			var b parsing.Block
			for _, paragraph := range block.Paragraphs {
				if paragraph == nil {
					continue
				}
				b.Paragraphs = append(b.Paragraphs, paragraphFromVision(paragraph))
			}
			p.Blocks = append(p.Blocks, b)
		}
		doc.Pages = append(doc.Pages, p)
	}

	return doc
}

func paragraphFromVision(paragraph *vision.Paragraph) parsing.Paragraph {
	p := parsing.Paragraph{Confidence: paragraph.Confidence}

	if paragraph.BoundingBox != nil {
		for _, vertex := range paragraph.BoundingBox.Vertices {
			if vertex == nil {
				continue
			}
			p.Vertices = append(p.Vertices, parsing.Vertex{X: float64(vertex.X), Y: float64(vertex.Y)})
		}
	}

	for _, word := range paragraph.Words {
		if word == nil {
			continue
		}
		var w parsing.Word
		for _, symbol := range word.Symbols {
			if symbol == nil {
				continue
			}
			w.Symbols = append(w.Symbols, parsing.Symbol{Text: symbol.Text})
		}
		p.Words = append(p.Words, w)
	}

	return p
}
