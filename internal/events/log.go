package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/provenly/custody-backend/pkg/enums"
	"github.com/provenly/custody-backend/pkg/logger"
	"github.com/provenly/custody-backend/pkg/types"
)

// Event is one entry in the audit trail. Entries carry no secret data and
// are readable without authorization.
type Event struct {
	Seq        uint64          `json:"seq"`
	EventID    string          `json:"eventId"`
	Type       enums.EventType `json:"type"`
	ProductID  uint64          `json:"productId"`
	Actor      types.Principal `json:"actor"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// Log is the append-only, strictly ordered record of every state change.
type Log struct {
	mu      sync.RWMutex
	entries []Event
	logg    *logger.Logger
}

// NewLog builds an empty event log.
func NewLog(logg *logger.Logger) *Log {
	return &Log{logg: logg}
}

// Append records an event and assigns the next sequence number. Sequence
// numbers start at 1 and never repeat.
func (l *Log) Append(ctx context.Context, eventType enums.EventType, productID uint64, actor types.Principal, data any) (Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}

	l.mu.Lock()
	event := Event{
		Seq:        uint64(len(l.entries)) + 1,
		EventID:    uuid.NewString(),
		Type:       eventType,
		ProductID:  productID,
		Actor:      actor,
		OccurredAt: time.Now(),
		Data:       payload,
	}
	l.entries = append(l.entries, event)
	l.mu.Unlock()

	if l.logg != nil {
		fields := map[string]any{
			"event_id":   event.EventID,
			"event_type": event.Type,
			"product_id": event.ProductID,
			"seq":        event.Seq,
		}
		l.logg.Info(l.logg.WithFields(ctx, fields), "audit event appended")
	}
	return event, nil
}

// List returns up to limit events with Seq greater than afterSeq, in order.
// A non-positive limit returns everything after the cursor.
func (l *Log) List(afterSeq uint64, limit int) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if afterSeq >= uint64(len(l.entries)) {
		return nil
	}
	tail := l.entries[afterSeq:]
	if limit > 0 && limit < len(tail) {
		tail = tail[:limit]
	}
	out := make([]Event, len(tail))
	copy(out, tail)
	return out
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
