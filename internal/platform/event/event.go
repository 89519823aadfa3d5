// Package event defines the seam between domain services and the real-time
// delivery layer. An event carries a scope key (the hospital whose dashboard
// should react) and the resource id only; consumers decide how to reconcile,
// typically by re-fetching the full appointment list.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carefind/carefind/internal/platform/websocket"
)

// Event kinds published by the appointment service.
const (
	AppointmentCreated = "appointment.created"
	AppointmentUpdated = "appointment.updated"
)

// Event is a hospital-scoped change notification.
type Event struct {
	Kind          string
	HospitalID    uuid.UUID
	AppointmentID uuid.UUID
	OccurredAt    time.Time
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// HospitalTopic returns the subscription topic for a hospital's appointments.
func HospitalTopic(hospitalID uuid.UUID) string {
	return "appointments:" + hospitalID.String()
}

// HubPublisher adapts the WebSocket hub to the Publisher interface.
type HubPublisher struct {
	hub *websocket.Hub
}

func NewHubPublisher(hub *websocket.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, ev Event) error {
	p.hub.Broadcast(websocket.Event{
		Type:       ev.Kind,
		Topic:      HospitalTopic(ev.HospitalID),
		ResourceID: ev.AppointmentID.String(),
		Timestamp:  ev.OccurredAt,
	})
	return nil
}

// NopPublisher discards events. Useful in tests and the migrate command.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
