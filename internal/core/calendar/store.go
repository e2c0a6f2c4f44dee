package calendar

import (
	"context"
	"time"
)

// Repository is the persistent store for custom calendar events. System
// events are never stored; they only exist in responses.
type Repository interface {
	Create(context context.Context, event *Event) error
	FindByID(context context.Context, organizationID, id string) (*Event, error)
	ListWindow(context context.Context, organizationID string, from, to time.Time) ([]*Event, error)
	Update(context context.Context, event *Event) error
	Delete(context context.Context, organizationID, id string) error
}
