package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/provenly/custody-backend/pkg/enums"
	"github.com/provenly/custody-backend/pkg/types"
)

func TestAppendAssignsSequentialSeq(t *testing.T) {
	log := NewLog(nil)
	ctx := context.Background()
	actor := types.Principal("addr-producer")

	for i := 1; i <= 3; i++ {
		event, err := log.Append(ctx, enums.EventProductCreated, uint64(i), actor, map[string]string{"name": "beans"})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if event.Seq != uint64(i) {
			t.Fatalf("expected seq %d, got %d", i, event.Seq)
		}
		if event.EventID == "" {
			t.Fatalf("expected a generated event id")
		}
		if event.OccurredAt.IsZero() {
			t.Fatalf("expected a timestamp")
		}
	}
	if log.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", log.Len())
	}
}

func TestAppendMarshalsPayload(t *testing.T) {
	log := NewLog(nil)
	event, err := log.Append(context.Background(), enums.EventProductShipped, 1, "addr-shipper", map[string]string{"location": "hub-1"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["location"] != "hub-1" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestAppendRejectsUnmarshalablePayload(t *testing.T) {
	log := NewLog(nil)
	if _, err := log.Append(context.Background(), enums.EventProductCreated, 1, "addr-producer", make(chan int)); err == nil {
		t.Fatalf("expected marshal error")
	}
	if log.Len() != 0 {
		t.Fatalf("failed append must not record an entry")
	}
}

func TestListCursorAndLimit(t *testing.T) {
	log := NewLog(nil)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := log.Append(ctx, enums.EventProductCreated, uint64(i)+1, "addr-producer", nil); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all := log.List(0, 0)
	if len(all) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(all))
	}

	page := log.List(2, 2)
	if len(page) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(page))
	}
	if page[0].Seq != 3 || page[1].Seq != 4 {
		t.Fatalf("unexpected seqs %d, %d", page[0].Seq, page[1].Seq)
	}

	if tail := log.List(10, 0); tail != nil {
		t.Fatalf("cursor past the end should return nil, got %v", tail)
	}
}
