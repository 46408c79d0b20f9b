package domain

import "context"

// EventPublisher publishes domain events. Publish failures are never fatal to
// the operation that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// ListingCache is a read-through cache for single listings.
// GetListing returns (nil, nil) on a miss.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*Listing, error)
	SetListing(ctx context.Context, listing *Listing) error
	DeleteListing(ctx context.Context, id string) error
}

// DocumentStorage stores uploaded files and returns their public URL.
type DocumentStorage interface {
	Upload(ctx context.Context, prefix, fileName string, data []byte) (string, error)
}

// Notifier delivers plain-text notifications by email.
type Notifier interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

type NopListingCache struct{}

func (NopListingCache) GetListing(context.Context, string) (*Listing, error) { return nil, nil }
func (NopListingCache) SetListing(context.Context, *Listing) error           { return nil }
func (NopListingCache) DeleteListing(context.Context, string) error          { return nil }

type NopNotifier struct{}

func (NopNotifier) Send(context.Context, []string, string, string) error { return nil }
