package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/spy-mission/apiserver/internal/mq"
)

const (
	channelSignup = "user.signup"
	channelUpload = "profile_picture.uploaded"
)

// EventPublisher emits account lifecycle events to an optional broker.
// A nil publisher, or one constructed without a broker, is a no-op, and a
// broker failure never fails the request that triggered the event.
type EventPublisher struct {
	broker *mq.MQ
}

func NewEventPublisher(broker *mq.MQ) *EventPublisher {
	return &EventPublisher{broker: broker}
}

type userEvent struct {
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (p *EventPublisher) UserSignedUp(ctx context.Context, userID int64) {
	p.publish(ctx, channelSignup, userEvent{UserID: userID, OccurredAt: time.Now().UTC()})
}

func (p *EventPublisher) ProfilePictureUploaded(ctx context.Context, userID int64) {
	p.publish(ctx, channelUpload, userEvent{UserID: userID, OccurredAt: time.Now().UTC()})
}

func (p *EventPublisher) publish(ctx context.Context, channel string, event userEvent) {
	if p == nil || p.broker == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if _, err := p.broker.Publish(ctx, channel, data, nil); err != nil {
		log.Printf("publish %s event: %v", channel, err)
	}
}
