package domain

// AIAnalysisResult is the structured outcome of classifying one complaint.
// It is consumed once, to seed the AI fields of a new ticket.
type AIAnalysisResult struct {
	Priority          TicketPriority `json:"priority"`
	Sentiment         Sentiment      `json:"sentiment"`
	Summary           string         `json:"summary"`
	SuggestedResponse string         `json:"suggestedResponse"`
}
