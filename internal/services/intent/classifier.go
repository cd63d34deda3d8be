// Package intent classifies research requests: portfolio-scoped or not,
// interested in financial statements or not. A keyword pass always runs;
// a Claude refinement runs on top of it when configured.
package intent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
)

// DefaultModel is the model used for intent refinement.
const DefaultModel = "claude-sonnet-4-20250514"

// financialKeywords mark interest in financial statements.
var financialKeywords = []string{
	"실적", "매출", "영업이익", "순이익", "재무", "재무제표", "손익",
	"자산", "부채", "자본", "roe", "per", "pbr",
}

// portfolioKeywords mark a request about the user's own holdings.
var portfolioKeywords = []string{
	"포트폴리오", "보유", "내 종목", "내 주식", "내가 가진", "내가 보유한",
}

// Classifier decides request intent.
type Classifier struct {
	client *anthropic.Client
	model  string
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.IntentClassifier = (*Classifier)(nil)

// Option configures the Classifier.
type Option func(*Classifier)

// WithClaude enables LLM refinement with the given API key and model.
func WithClaude(apiKey, model string) Option {
	return func(c *Classifier) {
		if apiKey == "" {
			return
		}
		client := anthropic.NewClient(option.WithAPIKey(apiKey))
		c.client = &client
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// NewClassifier creates an intent classifier. Without options it runs on
// keywords alone.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		model: DefaultModel,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Classify returns the intent of a query. The keyword pass is always the
// floor; the model refinement can widen the result but any model failure
// falls back to keywords silently.
func (c *Classifier) Classify(ctx context.Context, query string) models.Intent {
	intent := classifyKeywords(query)

	if c.client != nil {
		if refined, ok := c.refine(ctx, query); ok {
			intent.Portfolio = intent.Portfolio || refined.Portfolio
			intent.Financial = intent.Financial || refined.Financial
		}
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("query", query).
			Bool("portfolio", intent.Portfolio).
			Bool("financial", intent.Financial).
			Msg("Request intent classified")
	}

	return intent
}

func classifyKeywords(query string) models.Intent {
	lowered := strings.ToLower(query)

	var intent models.Intent
	for _, kw := range portfolioKeywords {
		if strings.Contains(lowered, kw) {
			intent.Portfolio = true
			break
		}
	}
	for _, kw := range financialKeywords {
		if strings.Contains(lowered, kw) {
			intent.Financial = true
			break
		}
	}
	return intent
}

const refinePrompt = `You classify Korean stock-research requests. Answer with JSON only, no prose:
{"portfolio": <true if the request is about the user's own holdings>, "financial": <true if the request shows interest in financial statements or figures>}

Request: `

func (c *Classifier) refine(ctx context.Context, query string) (models.Intent, bool) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 64,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(refinePrompt + query)),
		},
	})
	if err != nil {
		if c.logger != nil {
			c.logger.Warn().Err(err).Msg("Intent refinement failed, using keyword result")
		}
		return models.Intent{}, false
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}

	var refined models.Intent
	if err := json.Unmarshal([]byte(extractJSON(text)), &refined); err != nil {
		if c.logger != nil {
			c.logger.Warn().Err(err).Msg("Intent refinement returned unparseable output")
		}
		return models.Intent{}, false
	}
	return refined, true
}

// extractJSON trims anything around the first JSON object in the output.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
