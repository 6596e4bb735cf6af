package store

import (
	"context"
	"time"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
)

// SeedDemoTickets loads two sample tickets for demo environments. Enabled
// via APP_SEED_DEMO.
func SeedDemoTickets(ctx context.Context, s TicketStore) error {
	now := time.Now()
	demo := []domain.Ticket{
		{
			ID:                  "T-8821",
			CustomerName:        "Alice Johnson",
			Email:               "alice@example.com",
			OrderID:             "ORD-1001",
			Subject:             "Headphones not working",
			Description:         "I received the headphones yesterday but the left ear cup has no sound. I tried resetting them but it did not help.",
			Status:              domain.TicketStatusOpen,
			AIPriority:          domain.TicketPriorityHigh,
			AISentiment:         domain.SentimentNegative,
			AISummary:           "Defective product received (Left ear cup audio failure).",
			AISuggestedResponse: "Dear Alice, I am so sorry to hear about the issue with your new headphones. Since you have already tried resetting them, we can proceed with an immediate replacement. Please confirm your shipping address.",
			CreatedAt:           now.Add(-24 * time.Hour),
			Tags:                []string{"Hardware", "Return"},
		},
		{
			ID:                  "T-8822",
			CustomerName:        "Bob Smith",
			Email:               "bob@example.com",
			OrderID:             "ORD-1002",
			Subject:             "When will it arrive?",
			Description:         "Just checking the status of my order. It says shipped but tracking hasn't updated.",
			Status:              domain.TicketStatusInProgress,
			AIPriority:          domain.TicketPriorityLow,
			AISentiment:         domain.SentimentNeutral,
			AISummary:           "Order status inquiry; tracking stagnant.",
			AISuggestedResponse: "Hi Bob, thanks for reaching out. I see your order ORD-1002 is in transit. Sometimes tracking takes 24-48 hours to update once handed to the carrier. I will keep an eye on this for you.",
			CreatedAt:           now.Add(-48 * time.Hour),
			Tags:                []string{"Shipping"},
		},
	}

	// Insert oldest first so the newest ends up at the head.
	for i := len(demo) - 1; i >= 0; i-- {
		if err := s.Create(ctx, &demo[i]); err != nil {
			return err
		}
	}
	return nil
}
