package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePriority(t *testing.T) {
	ticket := Ticket{AIPriority: TicketPriorityHigh}
	assert.Equal(t, TicketPriorityHigh, ticket.EffectivePriority())

	override := TicketPriorityCritical
	ticket.ManualPriority = &override
	assert.Equal(t, TicketPriorityCritical, ticket.EffectivePriority())
}

func TestEffectiveSentiment(t *testing.T) {
	ticket := Ticket{AISentiment: SentimentNegative}
	assert.Equal(t, SentimentNegative, ticket.EffectiveSentiment())

	override := SentimentAngry
	ticket.ManualSentiment = &override
	assert.Equal(t, SentimentAngry, ticket.EffectiveSentiment())
}

func TestEffectiveValuesAlwaysDefined(t *testing.T) {
	cases := []struct {
		name     string
		priority *TicketPriority
	}{
		{name: "no override", priority: nil},
		{name: "with override", priority: ptr(TicketPriorityLow)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := Ticket{AIPriority: TicketPriorityMedium, AISentiment: SentimentNeutral, ManualPriority: tc.priority}
			assert.True(t, ValidPriority(ticket.EffectivePriority()))
			assert.True(t, ValidSentiment(ticket.EffectiveSentiment()))
		})
	}
}

func TestHasTag(t *testing.T) {
	ticket := Ticket{Tags: []string{"Hardware", "Return"}}
	assert.True(t, ticket.HasTag("Hardware"))
	assert.False(t, ticket.HasTag("Shipping"))
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidStatus(TicketStatusInProgress))
	assert.False(t, ValidStatus(TicketStatus("Reopened")))
	assert.True(t, ValidPriority(TicketPriorityCritical))
	assert.False(t, ValidPriority(TicketPriority("Urgent")))
	assert.True(t, ValidSentiment(SentimentAngry))
	assert.False(t, ValidSentiment(Sentiment("Furious")))
}

func ptr[T any](v T) *T { return &v }
