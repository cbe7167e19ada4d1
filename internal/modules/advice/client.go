package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/symnote/core/internal/models"
	"github.com/symnote/core/internal/modules/settings"
	"github.com/symnote/core/internal/pkg/secret"
	"go.uber.org/zap"
)

// DefaultModel is used when settings carry no model, or a denylisted one.
const DefaultModel = "gpt-4o-mini"

const (
	defaultEndpoint = "https://api.openai.com"
	requestTimeout  = 30 * time.Second

	// defaultSystemPrompt applies when settings carry no override.
	defaultSystemPrompt = "You are a capable medical assistant. Provide general information and " +
		"self-care guidance, never a diagnosis, and urge urgent cases to seek in-person care."
)

var (
	// ErrNoAPIKey is returned before any network attempt when the secret
	// store holds no credential.
	ErrNoAPIKey = errors.New("no API key configured")
	// ErrInvalidResponse collapses transport, auth and decode failures from
	// the completion endpoint; the caller's recovery is the same for all.
	ErrInvalidResponse = errors.New("invalid response from advice endpoint")
)

// Model identifiers known to reject the chat-completions request shape.
var unsupportedModels = map[string]struct{}{
	"o3":      {},
	"o3-mini": {},
	"gpt-o3":  {},
}

// SanitizeModel maps blank or known-unsupported model overrides to the
// default identifier and passes anything else through unchanged.
func SanitizeModel(name string) string {
	m := strings.TrimSpace(name)
	if m == "" {
		return DefaultModel
	}
	if _, bad := unsupportedModels[strings.ToLower(m)]; bad {
		return DefaultModel
	}
	return m
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client calls the external completion endpoint with the bearer credential
// from the secret store. It never retries; errors surface to the caller.
type Client struct {
	secrets    *secret.Store
	logger     *zap.Logger
	endpoint   string
	httpClient *http.Client
}

func NewClient(secrets *secret.Store, logger *zap.Logger) *Client {
	return &Client{
		secrets:    secrets,
		logger:     logger,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// GetAdvice builds the list-form prompt for entries and requests a completion.
func (c *Client) GetAdvice(ctx context.Context, entries []models.EntryModel, opts Options, cfg *settings.Settings) (string, error) {
	return c.complete(ctx, BuildPrompt(entries, opts), cfg)
}

// GetEntryAdvice requests a completion for a single entry.
func (c *Client) GetEntryAdvice(ctx context.Context, e *models.EntryModel, opts Options, cfg *settings.Settings) (string, error) {
	return c.complete(ctx, BuildEntryPrompt(e, opts), cfg)
}

// GetShortAdvice is the bullet-summary convenience wrapper over GetAdvice.
func (c *Client) GetShortAdvice(ctx context.Context, entries []models.EntryModel, bullets int, tone Tone, cfg *settings.Settings) (string, error) {
	opts := Options{Kind: models.AdviceKindShort, Tone: tone}
	if bullets > 0 {
		opts.Bullets = &bullets
	}
	return c.GetAdvice(ctx, entries, opts, cfg)
}

// Model resolves the identifier a call would use for the given settings.
func (c *Client) Model(cfg *settings.Settings) string {
	if cfg == nil {
		return DefaultModel
	}
	return SanitizeModel(cfg.AIModel)
}

func (c *Client) complete(ctx context.Context, prompt string, cfg *settings.Settings) (string, error) {
	key, err := c.secrets.Get(secret.KeyAPICredential)
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	if key == nil || strings.TrimSpace(*key) == "" {
		return "", ErrNoAPIKey
	}

	system := defaultSystemPrompt
	if cfg != nil && strings.TrimSpace(cfg.AISystemPrompt) != "" {
		system = cfg.AISystemPrompt
	}

	body, _ := json.Marshal(chatRequest{
		Model: c.Model(cfg),
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(*key))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("advice endpoint returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", strings.TrimSpace(string(respBody))))
		return "", fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}
