package imagegen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const (
	maxRetries = 3
	retryDelay = 2 * time.Second

	// MaxPromptChars is the longest prompt the API accepts, counted in
	// characters rather than bytes.
	MaxPromptChars = 32000
)

// ValidatePrompt rejects empty prompts and prompts over the character limit.
func ValidatePrompt(prompt string) error {
	if prompt == "" {
		return errors.New("prompt is empty")
	}
	if n := utf8.RuneCountInString(prompt); n > MaxPromptChars {
		return fmt.Errorf("prompt too long (%d chars, max %d)", n, MaxPromptChars)
	}
	return nil
}

// Request describes one image-generation call.
type Request struct {
	Prompt       string
	Model        string
	N            int
	Size         string // "auto" lets the API pick
	Quality      string
	Background   string
	OutputFormat string
}

// Client wraps the OpenAI images API with the retry policy the callers
// expect: up to 3 attempts on 429/5xx and network errors, backoff doubling
// from 2 seconds.
type Client struct {
	api        *openai.Client
	retryDelay time.Duration
}

func NewClient(api *openai.Client) *Client {
	return &Client{api: api, retryDelay: retryDelay}
}

// Generate returns the base64-encoded images for the request.
func (c *Client) Generate(ctx context.Context, req Request) ([]string, error) {
	apiReq := openai.ImageRequest{
		Prompt:       req.Prompt,
		Model:        req.Model,
		N:            req.N,
		Quality:      req.Quality,
		Background:   req.Background,
		OutputFormat: req.OutputFormat,
	}
	if req.Size != "" && req.Size != "auto" {
		apiReq.Size = req.Size
	}
	// gpt-image models always return base64 and reject response_format
	if strings.HasPrefix(req.Model, "dall-e") {
		apiReq.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1))
			log.Warn().Msgf("retry %d/%d after %s (%v)", attempt, maxRetries, delay, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := c.api.CreateImage(ctx, apiReq)
		if err == nil {
			images := make([]string, 0, len(resp.Data))
			for _, item := range resp.Data {
				images = append(images, item.B64JSON)
			}
			return images, nil
		}

		lastErr = err
		if !retryable(err) {
			return nil, fmt.Errorf("image generation failed: %w", err)
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	// no structured status means a transport-level failure
	return true
}
