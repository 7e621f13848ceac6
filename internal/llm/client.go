// Package llm wraps the external keyword-extraction model. The model is an
// external collaborator: it either returns a short list of research
// keywords for a block of biography text or fails. A client without
// credentials reports zero keywords instead of erroring, so callers must
// treat an empty result as an expected failure mode.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/CDurepos/scholarsphere-sub000/pkg/circuitbreaker"
	"github.com/CDurepos/scholarsphere-sub000/pkg/logger"
	"github.com/CDurepos/scholarsphere-sub000/pkg/retry"
)

// Biography text beyond this length adds latency without improving the
// extracted keywords.
const biographyLengthLimit = 2000

type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	numKeywords int
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewClient(apiKey, model string, temperature float32, maxTokens, timeoutSec, numKeywords int) *Client {
	var client *openai.Client
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}

	cb := circuitbreaker.NewCircuitBreaker("llm", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	if numKeywords <= 0 {
		numKeywords = 5
	}
	if timeoutSec <= 0 {
		timeoutSec = 60
	}

	logger.Info("LLM client initialized",
		zap.String("model", model),
		zap.Bool("credentials_present", client != nil),
	)

	return &Client{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     time.Duration(timeoutSec) * time.Second,
		numKeywords: numKeywords,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

// ExtractKeywords asks the model for research keywords describing a
// biography. An unconfigured client returns an empty list and no error.
func (c *Client) ExtractKeywords(ctx context.Context, biography string) ([]string, error) {
	biography = strings.TrimSpace(biography)
	if biography == "" {
		return nil, nil
	}
	biography = truncateBiography(biography, biographyLengthLimit)

	if c.client == nil {
		logger.Warn("LLM credentials missing, keywords cannot be generated")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: fmt.Sprintf(
				"You generate exactly %d research keywords about a faculty member. "+
					"Output MUST be only the keywords separated by commas. "+
					"No explanations, no extra text, no quotes, no numbering.",
				c.numKeywords,
			),
		},
		{
			Role: openai.ChatMessageRoleUser,
			Content: "Biography:\n" +
				"Professor Alice Zhang studies machine learning fairness, " +
				"algorithmic transparency, neural network interpretability, and " +
				"applied ethics in AI systems.",
		},
		{
			Role: openai.ChatMessageRoleAssistant,
			Content: "machine learning fairness, algorithmic transparency, neural network interpretability, " +
				"applied AI ethics, explainable AI",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: "Biography:\n" + biography,
		},
	}

	var content string

	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			resp, err := c.client.CreateChatCompletion(
				ctx,
				openai.ChatCompletionRequest{
					Model:       c.model,
					Messages:    messages,
					Temperature: c.temperature,
					MaxTokens:   c.maxTokens,
				},
			)
			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("completion returned no choices")
			}

			logger.Debug("Keyword extraction completed",
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)

			content = resp.Choices[0].Message.Content
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	keywords := parseKeywords(content, c.numKeywords)
	return keywords, nil
}

// truncateBiography cuts text to at most limit bytes without splitting a
// multi-byte rune.
func truncateBiography(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// parseKeywords turns model output into a clean keyword list: split on
// commas and newlines, strip numbering and quotes, dedupe
// case-insensitively, cap at max.
func parseKeywords(content string, max int) []string {
	fields := strings.FieldsFunc(content, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})

	seen := make(map[string]struct{}, len(fields))
	keywords := make([]string, 0, max)
	for _, f := range fields {
		kw := strings.TrimLeft(strings.TrimSpace(f), "0123456789.- )")
		kw = strings.Trim(strings.TrimSpace(kw), `"'`)
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keywords = append(keywords, kw)
		if len(keywords) == max {
			break
		}
	}
	return keywords
}
