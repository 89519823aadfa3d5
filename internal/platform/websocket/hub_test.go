package websocket

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newTestHub() *Hub {
	return NewHub(zerolog.New(os.Stderr))
}

func newTestClient(topics ...string) *Client {
	return &Client{
		ID:     "test",
		Topics: topics,
		Send:   make(chan []byte, 4),
	}
}

func hospitalTopic() string {
	return TopicPrefix + uuid.New().String()
}

func TestRegisterAndBroadcast(t *testing.T) {
	hub := newTestHub()
	topic := hospitalTopic()
	client := newTestClient(topic)
	hub.Register(client)

	hub.Broadcast(Event{Type: "appointment.created", Topic: topic, ResourceID: "a1", Timestamp: time.Now()})

	select {
	case data := <-client.Send:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type != "appointment.created" || ev.ResourceID != "a1" {
			t.Errorf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected event delivered to subscriber")
	}
}

func TestBroadcast_OtherTopicNotDelivered(t *testing.T) {
	hub := newTestHub()
	client := newTestClient(hospitalTopic())
	hub.Register(client)

	hub.Broadcast(Event{Type: "appointment.created", Topic: hospitalTopic()})

	select {
	case <-client.Send:
		t.Fatal("expected no delivery for unrelated topic")
	default:
	}
}

func TestUnregister_ClosesSend(t *testing.T) {
	hub := newTestHub()
	client := newTestClient(hospitalTopic())
	hub.Register(client)
	hub.Unregister(client)

	if _, open := <-client.Send; open {
		t.Error("expected send channel closed after unregister")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.ClientCount())
	}
	// Double unregister must not panic.
	hub.Unregister(client)
}

func TestSubscribeUnsubscribe(t *testing.T) {
	hub := newTestHub()
	client := newTestClient()
	hub.Register(client)

	topic := hospitalTopic()
	hub.ProcessMessage(client, ClientMessage{Action: "subscribe", Topics: []string{topic}})
	if hub.TopicCount(topic) != 1 {
		t.Errorf("expected 1 subscriber, got %d", hub.TopicCount(topic))
	}

	hub.ProcessMessage(client, ClientMessage{Action: "unsubscribe", Topics: []string{topic}})
	if hub.TopicCount(topic) != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.TopicCount(topic))
	}
	if len(client.Topics) != 0 {
		t.Errorf("expected client topics cleared, got %v", client.Topics)
	}
}

func TestSubscribe_RejectsMalformedTopics(t *testing.T) {
	hub := newTestHub()
	client := newTestClient()
	hub.Register(client)

	hub.Subscribe(client, []string{"appointments:not-a-uuid", "admin:*", ""})

	if len(client.Topics) != 0 {
		t.Errorf("expected no topics accepted, got %v", client.Topics)
	}
	if hub.TopicCount("admin:*") != 0 {
		t.Error("expected malformed topic to have no subscribers")
	}
}

func TestValidTopic(t *testing.T) {
	if !ValidTopic(TopicPrefix + uuid.New().String()) {
		t.Error("expected hospital appointment topic to be valid")
	}
	for _, topic := range []string{"", "appointments:", "appointments:xyz", uuid.New().String()} {
		if ValidTopic(topic) {
			t.Errorf("expected %q to be invalid", topic)
		}
	}
}

func TestBroadcast_FullBufferSkipped(t *testing.T) {
	hub := newTestHub()
	topic := hospitalTopic()
	client := &Client{ID: "slow", Topics: []string{topic}, Send: make(chan []byte)}
	hub.Register(client)

	// Unbuffered channel with no reader: broadcast must not block.
	done := make(chan struct{})
	go func() {
		hub.Broadcast(Event{Type: "appointment.updated", Topic: topic})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on slow client")
	}
}
