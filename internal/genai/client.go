// Package genai wraps the remote generative-image service. It is the only
// package with network I/O; prompt construction lives in internal/composer
// and result bookkeeping in internal/orchestrator.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"thumbforge/internal/composer"
	"thumbforge/internal/domain"
	"thumbforge/internal/infra"
)

// FallbackStyleDescriptor is returned when style analysis succeeds at the
// transport level but yields no usable text.
const FallbackStyleDescriptor = "High quality, professional style, cinematic lighting, 8k resolution."

// Options controls how the client is configured.
type Options struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	ImageModel  string
	ImagenModel string
	HTTPClient  *http.Client
	Logger      *infra.Logger
}

// Client is a facade over the Gemini generateContent and Imagen predict
// endpoints. With an empty API key it fabricates deterministic synthetic
// assets so the rest of the pipeline stays exercisable in local and CI
// environments.
type Client struct {
	apiKey      string
	baseURL     string
	textModel   string
	imageModel  string
	imagenModel string
	httpClient  *http.Client
	logger      *infra.Logger
}

// NewClient constructs a client with sane defaults. A nil HTTP client gets a
// reusable one with a generous timeout; image synthesis is slow upstream.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	textModel := opts.TextModel
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	imageModel := opts.ImageModel
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	imagenModel := opts.ImagenModel
	if imagenModel == "" {
		imagenModel = "imagen-4.0-generate-001"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:      strings.TrimSpace(opts.APIKey),
		baseURL:     baseURL,
		textModel:   textModel,
		imageModel:  imageModel,
		imagenModel: imagenModel,
		httpClient:  client,
		logger:      logger,
	}
}

// EnhanceConcept sends the raw idea through the brainstorm brief and returns
// the structured visual concept. Enhancement is best-effort: on any failure
// the raw idea is returned unchanged so generation never blocks on it.
func (c *Client) EnhanceConcept(ctx context.Context, rawIdea string, niche domain.Niche) string {
	if c.apiKey == "" {
		return c.syntheticConcept(rawIdea, niche)
	}

	payload := generateContentRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: composer.EnhancementBrief(rawIdea, niche)}},
		}},
		GenerationConfig: &generationConfig{Temperature: 0.7},
	}

	var response generateContentResponse
	if err := c.invoke(ctx, c.textModel, "generateContent", payload, &response); err != nil {
		c.logger.Warn().Err(err).Str("model", c.textModel).Msg("genai: concept enhancement failed; using raw idea")
		return rawIdea
	}

	concept := strings.TrimSpace(response.text())
	if concept == "" {
		return rawIdea
	}
	return concept
}

// SynthesizeFromText generates an image from the final prompt alone via the
// Imagen predict endpoint.
func (c *Client) SynthesizeFromText(ctx context.Context, finalPrompt string, ratio domain.AspectRatio) (string, error) {
	if c.apiKey == "" {
		return c.syntheticImage(finalPrompt, ratio), nil
	}

	payload := imagenPredictRequest{
		Instances: []imagenInstance{{Prompt: finalPrompt}},
		Parameters: imagenParameters{
			SampleCount:    1,
			AspectRatio:    string(ratio),
			OutputMimeType: "image/png",
		},
	}

	var response imagenPredictResponse
	if err := c.invoke(ctx, c.imagenModel, "predict", payload, &response); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	for _, prediction := range response.Predictions {
		if prediction.BytesBase64Encoded != "" {
			return pngDataURI(prediction.BytesBase64Encoded), nil
		}
	}
	return "", fmt.Errorf("%w: no images in response", domain.ErrGenerationFailed)
}

// SynthesizeFromReference generates an image conditioned on a reference face
// using the image-capable Gemini model.
func (c *Client) SynthesizeFromReference(ctx context.Context, finalPrompt, faceDataURI string, ratio domain.AspectRatio) (string, error) {
	if c.apiKey == "" {
		return c.syntheticImage(finalPrompt, ratio), nil
	}

	faceData, faceMime := parseDataURI(faceDataURI, "image/jpeg")
	payload := generateContentRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &blob{Data: faceData, MimeType: faceMime}},
				{Text: finalPrompt},
			},
		}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
			ImageConfig:        &imageConfig{AspectRatio: string(ratio)},
		},
	}

	var response generateContentResponse
	if err := c.invoke(ctx, c.imageModel, "generateContent", payload, &response); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if data := response.inlineImage(); data != "" {
		return pngDataURI(data), nil
	}
	return "", fmt.Errorf("%w: no image generated from face input", domain.ErrGenerationFailed)
}

// EditImage applies an edit instruction to the source image, optionally
// conditioned on a second reference face.
func (c *Client) EditImage(ctx context.Context, sourceDataURI, instruction, faceDataURI string) (string, error) {
	if c.apiKey == "" {
		return c.syntheticImage(instruction, domain.DefaultAspectRatio), nil
	}

	sourceData, sourceMime := parseDataURI(sourceDataURI, "image/png")
	parts := []part{{InlineData: &blob{Data: sourceData, MimeType: sourceMime}}}
	if faceDataURI != "" {
		faceData, faceMime := parseDataURI(faceDataURI, "image/jpeg")
		parts = append(parts, part{InlineData: &blob{Data: faceData, MimeType: faceMime}})
	}
	parts = append(parts, part{Text: instruction})

	payload := generateContentRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	var response generateContentResponse
	if err := c.invoke(ctx, c.imageModel, "generateContent", payload, &response); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if data := response.inlineImage(); data != "" {
		return pngDataURI(data), nil
	}
	return "", fmt.Errorf("%w: no image data found in response", domain.ErrGenerationFailed)
}

// AnalyzeStyle extracts a comma-separated visual DNA descriptor from the
// reference images. Unlike concept enhancement this is not best-effort: the
// caller must know training failed. A successful but empty response degrades
// to a generic descriptor instead.
func (c *Client) AnalyzeStyle(ctx context.Context, refDataURIs []string) (string, error) {
	if len(refDataURIs) == 0 {
		return "", fmt.Errorf("%w: no reference images", domain.ErrStyleAnalysisFailed)
	}
	if c.apiKey == "" {
		return FallbackStyleDescriptor, nil
	}

	parts := make([]part, 0, len(refDataURIs)+1)
	for _, uri := range refDataURIs {
		data, mime := parseDataURI(uri, "image/jpeg")
		parts = append(parts, part{InlineData: &blob{Data: data, MimeType: mime}})
	}
	parts = append(parts, part{Text: composer.StyleAnalysisBrief()})

	payload := generateContentRequest{
		Contents:         []content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{Temperature: 0.1},
	}

	var response generateContentResponse
	if err := c.invoke(ctx, c.textModel, "generateContent", payload, &response); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStyleAnalysisFailed, err)
	}

	descriptor := strings.TrimSpace(response.text())
	if descriptor == "" {
		return FallbackStyleDescriptor, nil
	}
	return descriptor, nil
}

func (c *Client) invoke(ctx context.Context, model, method string, payload any, out any) error {
	endpoint := fmt.Sprintf("%s/models/%s:%s", c.baseURL, url.PathEscape(model), method)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}
