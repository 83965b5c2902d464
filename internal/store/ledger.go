package store

import "freshmind/internal/domain"

// Ledger is the static purchase-event history, grouped by user. Event order
// within a user is ledger order, which drives aggregation tiebreaks.
type Ledger struct {
	events []domain.PurchaseEvent
	byUser map[int][]domain.PurchaseEvent
}

// NewLedger builds a ledger snapshot from the given events.
func NewLedger(events []domain.PurchaseEvent) *Ledger {
	l := &Ledger{
		events: make([]domain.PurchaseEvent, len(events)),
		byUser: make(map[int][]domain.PurchaseEvent),
	}
	copy(l.events, events)
	for _, e := range l.events {
		l.byUser[e.UserID] = append(l.byUser[e.UserID], e)
	}
	return l
}

// ByUser returns the user's purchase events in ledger order. A user with no
// history gets an empty slice; that is a defined zero-signal state, not an
// error. Callers must not mutate the returned slice.
func (l *Ledger) ByUser(userID int) []domain.PurchaseEvent {
	return l.byUser[userID]
}

// All returns every event in ledger order.
func (l *Ledger) All() []domain.PurchaseEvent {
	return l.events
}

// Len returns the total number of events.
func (l *Ledger) Len() int {
	return len(l.events)
}
