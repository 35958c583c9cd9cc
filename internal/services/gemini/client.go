package gemini

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"storevisit/internal/services"
)

const (
	// DefaultModel is used when Config.Model is blank.
	DefaultModel  = "gemini-2.5-flash"
	componentName = "gemini"
	audioPrompt   = "この音声を書き起こして分類してください。"
)

// Config holds the Gemini API settings.
type Config struct {
	APIKey string
	Model  string
}

// generateFunc is the single call the client makes against the API.
type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Client answers observations with a Gemini model.
type Client struct {
	model        string
	systemPrompt string
	limiter      *rate.Limiter
	generate     generateFunc
}

// Option customizes the client.
type Option func(*Client)

// WithRateLimiter throttles requests.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithSystemPrompt sets the instructions sent with every observation.
func WithSystemPrompt(prompt string) Option {
	return func(c *Client) {
		c.systemPrompt = strings.TrimSpace(prompt)
	}
}

func withGenerator(fn generateFunc) Option {
	return func(c *Client) {
		c.generate = fn
	}
}

// NewClient builds a Gemini API client.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, componentName, "new client", "api key required", nil)
	}
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, componentName, "new client", "create genai client", err)
	}
	return newClient(cfg, append([]Option{withGenerator(api.Models.GenerateContent)}, opts...)...), nil
}

func newClient(cfg Config, opts ...Option) *Client {
	c := &Client{model: strings.TrimSpace(cfg.Model)}
	if c.model == "" {
		c.model = DefaultModel
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Respond implements services.Responder. Audio is sent inline with its MIME
// type; text is sent as a single user part.
func (c *Client) Respond(ctx context.Context, obs services.Observation) (string, error) {
	if c.generate == nil {
		return "", services.Wrap(services.ErrConfiguration, componentName, "respond", "client not initialized", nil)
	}
	var parts []*genai.Part
	switch {
	case obs.HasAudio():
		mime := strings.TrimSpace(obs.MIMEType)
		if !strings.HasPrefix(strings.ToLower(mime), "audio/") {
			return "", services.Wrap(services.ErrValidation, componentName, "respond", "unsupported audio mime type "+mime, nil)
		}
		parts = []*genai.Part{
			genai.NewPartFromText(audioPrompt),
			genai.NewPartFromBytes(obs.Audio, mime),
		}
	case strings.TrimSpace(obs.Text) != "":
		parts = []*genai.Part{genai.NewPartFromText(obs.Text)}
	default:
		return "", services.Wrap(services.ErrValidation, componentName, "respond", "observation is empty", nil)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", services.Wrap(services.ErrUpstreamModel, componentName, "respond", "rate limit wait", err)
		}
	}

	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if c.systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(c.systemPrompt, genai.RoleUser)
	}
	resp, err := c.generate(ctx, c.model, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg)
	if err != nil {
		return "", services.Wrap(services.ErrUpstreamModel, componentName, "respond", "generate content", err)
	}
	if resp == nil {
		return "", services.Wrap(services.ErrUpstreamModel, componentName, "respond", "empty response", errors.New("nil response"))
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", services.Wrap(services.ErrUpstreamModel, componentName, "respond", "empty response", nil)
	}
	return text, nil
}
