package classify

import (
	"context"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
)

// Classifier turns a raw complaint plus order context into a structured
// analysis. Implementations never fail outward: provider errors, timeouts,
// and malformed payloads all resolve to a usable fallback result.
type Classifier interface {
	Classify(ctx context.Context, subject, description, orderID string) domain.AIAnalysisResult
}

// MissingKeyResult is the deterministic result returned when no provider
// credential is configured. No network call is attempted.
func MissingKeyResult() domain.AIAnalysisResult {
	return domain.AIAnalysisResult{
		Priority:          domain.TicketPriorityMedium,
		Sentiment:         domain.SentimentNeutral,
		Summary:           "AI Analysis unavailable (Missing Key).",
		SuggestedResponse: "Thank you for your message. A support agent will review it shortly.",
	}
}

// ErrorFallbackResult is the deterministic result returned when the provider
// errors, times out, or produces a malformed payload.
func ErrorFallbackResult() domain.AIAnalysisResult {
	return domain.AIAnalysisResult{
		Priority:          domain.TicketPriorityMedium,
		Sentiment:         domain.SentimentNeutral,
		Summary:           "Error during AI analysis.",
		SuggestedResponse: "Thank you for contacting us. We will review your request shortly.",
	}
}

// validResult reports whether the parsed payload carries the mandatory
// enum values.
func validResult(result domain.AIAnalysisResult) bool {
	return domain.ValidPriority(result.Priority) && domain.ValidSentiment(result.Sentiment)
}
