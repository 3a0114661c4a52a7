package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventUserCreated        EventType = "zarena.user.created"
	EventRoleChanged        EventType = "zarena.user.role_changed"
	EventTransactionPosted  EventType = "zarena.wallet.transaction_posted"
	EventRequestSubmitted   EventType = "zarena.request.submitted"
	EventRequestDisposed    EventType = "zarena.request.disposed"
	EventRateUpdated        EventType = "zarena.rates.updated"
	EventTeamRegistered     EventType = "zarena.tournament.team_registered"
	EventTournamentSettled  EventType = "zarena.tournament.settled"
	EventProductRedeemed    EventType = "zarena.shop.product_redeemed"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateUser       AggregateType = "user"
	AggregateWallet     AggregateType = "wallet"
	AggregateRequest    AggregateType = "request"
	AggregateTournament AggregateType = "tournament"
	AggregateShop       AggregateType = "shop"
	AggregateRates      AggregateType = "rates"
)

// OutboxDraft is the payload written to the event_outbox table.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Headers       json.RawMessage `json:"headers"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewTransactionPostedEvent creates the standard wallet event for a ledger entry.
func NewTransactionPostedEvent(tx *Transaction) OutboxDraft {
	payload, _ := json.Marshal(tx)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateWallet,
		AggregateID:   tx.UserID.String(),
		EventType:     EventTransactionPosted,
		PartitionKey:  tx.UserID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewUserCreatedEvent creates a user lifecycle event.
func NewUserCreatedEvent(userID uuid.UUID, username, email string) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{
		"user_id":  userID.String(),
		"username": username,
		"email":    email,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateUser,
		AggregateID:   userID.String(),
		EventType:     EventUserCreated,
		PartitionKey:  userID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewRoleChangedEvent records an admin changing a user's role.
func NewRoleChangedEvent(userID, changedBy uuid.UUID, role Role) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{
		"user_id":    userID.String(),
		"role":       string(role),
		"changed_by": changedBy.String(),
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateUser,
		AggregateID:   userID.String(),
		EventType:     EventRoleChanged,
		PartitionKey:  userID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewRequestSubmittedEvent records a new deposit or withdrawal submission.
func NewRequestSubmittedEvent(kind string, requestID, userID uuid.UUID, amount int64) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"kind":       kind,
		"request_id": requestID.String(),
		"user_id":    userID.String(),
		"amount":     amount,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateRequest,
		AggregateID:   requestID.String(),
		EventType:     EventRequestSubmitted,
		PartitionKey:  userID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewRequestDisposedEvent records an admin disposition of a request.
func NewRequestDisposedEvent(kind string, requestID, userID, reviewerID uuid.UUID, status RequestStatus) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{
		"kind":        kind,
		"request_id":  requestID.String(),
		"user_id":     userID.String(),
		"reviewed_by": reviewerID.String(),
		"status":      string(status),
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateRequest,
		AggregateID:   requestID.String(),
		EventType:     EventRequestDisposed,
		PartitionKey:  userID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewRateUpdatedEvent records an admin change of the conversion rate.
func NewRateUpdatedEvent(rateID, setBy uuid.UUID, ratePKR float64) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"rate_id":  rateID.String(),
		"set_by":   setBy.String(),
		"rate_pkr": ratePKR,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateRates,
		AggregateID:   rateID.String(),
		EventType:     EventRateUpdated,
		PartitionKey:  "rates",
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewTeamRegisteredEvent records a completed tournament registration.
func NewTeamRegisteredEvent(reg *Registration) OutboxDraft {
	payload, _ := json.Marshal(reg)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateTournament,
		AggregateID:   reg.TournamentID.String(),
		EventType:     EventTeamRegistered,
		PartitionKey:  reg.TournamentID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewTournamentSettledEvent records prize distribution for a completed
// tournament. Winners are captain IDs in placement order.
func NewTournamentSettledEvent(tournamentID, settledBy uuid.UUID, winners []uuid.UUID, prizePool int64) OutboxDraft {
	ids := make([]string, len(winners))
	for i, w := range winners {
		ids[i] = w.String()
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"tournament_id": tournamentID.String(),
		"settled_by":    settledBy.String(),
		"winners":       ids,
		"prize_pool":    prizePool,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateTournament,
		AggregateID:   tournamentID.String(),
		EventType:     EventTournamentSettled,
		PartitionKey:  tournamentID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewProductRedeemedEvent records a shop redemption.
func NewProductRedeemedEvent(order *Order) OutboxDraft {
	payload, _ := json.Marshal(order)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateShop,
		AggregateID:   order.ID.String(),
		EventType:     EventProductRedeemed,
		PartitionKey:  order.UserID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
