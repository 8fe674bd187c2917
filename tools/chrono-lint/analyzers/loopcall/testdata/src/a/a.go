package a

import "context"

type Event struct{ ID string }

type EventStore interface {
	SaveEvent(ctx context.Context, event *Event) error
	SaveEvents(ctx context.Context, events []Event) error
	FindEventByID(ctx context.Context, id string) (*Event, error)
}

func bad(ctx context.Context, events []Event, store EventStore) {
	for i := range events {
		store.SaveEvent(ctx, &events[i])      // want "potential N\\+1: SaveEvent called inside loop - use SaveEvents"
		store.FindEventByID(ctx, events[i].ID) // want "potential N\\+1: FindEventByID called inside loop - use FindEventsByIDs"
	}
}

func good(ctx context.Context, events []Event, store EventStore) {
	_ = store.SaveEvents(ctx, events)
	for _, ev := range events {
		_ = len(ev.ID)
	}
}
