package domain

import "time"

// History action labels recorded by store mutations.
const (
	ActionTicketCreated  = "Ticket Created"
	ActionStatusChange   = "Status Change"
	ActionUpdatedDetails = "Updated Details"
)

// ActorSystem is the actor recorded for mutations not driven by staff.
const ActorSystem = "System"

// HistoryEntry is an immutable audit record of one ticket mutation.
type HistoryEntry struct {
	Timestamp time.Time
	Action    string
	Actor     string
	Details   string
}
