package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
	"github.com/kishanyadav-shop/support-portal/internal/orders"
)

const systemPrompt = "You are an expert customer support AI for 'kishanyadav.shop'."

// OpenAIClassifier analyzes complaints through the OpenAI chat completion
// API, constraining the response to a fixed four-field schema.
type OpenAIClassifier struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	lookup  orders.Lookup
	logger  *zap.Logger
}

// NewOpenAIClassifier constructs the classifier. An empty apiKey disables
// provider calls entirely: Classify then returns the missing-key default.
func NewOpenAIClassifier(apiKey, model string, timeout time.Duration, lookup orders.Lookup, logger *zap.Logger) *OpenAIClassifier {
	var client *openai.Client
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClassifier{
		client:  client,
		model:   model,
		timeout: timeout,
		lookup:  lookup,
		logger:  logger,
	}
}

var analysisSchema = &jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"priority": {
			Type: jsonschema.String,
			Enum: []string{
				string(domain.TicketPriorityLow),
				string(domain.TicketPriorityMedium),
				string(domain.TicketPriorityHigh),
				string(domain.TicketPriorityCritical),
			},
		},
		"sentiment": {
			Type: jsonschema.String,
			Enum: []string{
				string(domain.SentimentPositive),
				string(domain.SentimentNeutral),
				string(domain.SentimentNegative),
				string(domain.SentimentAngry),
			},
		},
		"summary":           {Type: jsonschema.String},
		"suggestedResponse": {Type: jsonschema.String},
	},
	Required:             []string{"priority", "sentiment", "summary", "suggestedResponse"},
	AdditionalProperties: false,
}

// Classify analyzes the complaint. It resolves to the missing-key default
// when no credential is configured and to the error fallback on any provider
// failure, including caller timeouts.
func (c *OpenAIClassifier) Classify(ctx context.Context, subject, description, orderID string) domain.AIAnalysisResult {
	if c.client == nil {
		c.logger.Warn("no classification credential configured; returning default analysis")
		return MissingKeyResult()
	}

	orderContext := orders.NoOrderHistory
	if c.lookup != nil {
		orderContext = c.lookup.Lookup(orderID)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(`Task: Analyze the following customer complaint.

Context - Order History: %s

Complaint Subject: %s
Complaint Description: %s

Please provide:
1. Priority (Low, Medium, High, Critical) based on urgency and sentiment.
2. Sentiment (Positive, Neutral, Negative, Angry).
3. A brief summary (max 15 words).
4. A polite, professional, and personalized suggested response draft for the agent. Use the order context if relevant (e.g., mention specific items).`,
		orderContext, subject, description)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "complaint_analysis",
				Schema: analysisSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		c.logger.Error("classification request failed", zap.Error(err))
		return ErrorFallbackResult()
	}
	if len(resp.Choices) == 0 {
		c.logger.Error("classification response empty")
		return ErrorFallbackResult()
	}

	payload := strings.TrimSpace(resp.Choices[0].Message.Content)
	var result domain.AIAnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		c.logger.Error("classification response malformed", zap.Error(err), zap.String("payload", payload))
		return ErrorFallbackResult()
	}
	if !validResult(result) {
		c.logger.Error("classification response outside schema", zap.String("payload", payload))
		return ErrorFallbackResult()
	}
	return result
}
