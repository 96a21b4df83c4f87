package mq

import (
	"context"
	"encoding/json"
	"time"

	"attira/logger"
	"attira/rdx"
	"attira/utils"

	"go.uber.org/zap"
)

const channel = "store-events"

// Event types emitted by the store.
const (
	EventOrderPlaced   = "order-placed"
	EventOrderPaid     = "order-paid"
	EventPaymentFailed = "payment-failed"
	EventStockDepleted = "stock-depleted"
	EventUserLoggedOut = "user-loggedout"
)

// Event is a lightweight notification about a store-side change. EventID
// lets downstream consumers deduplicate redeliveries.
type Event struct {
	EventID  string    `json:"event_id"`
	Type     string    `json:"type"`
	EntityID string    `json:"entity_id"`
	UserID   string    `json:"user_id,omitempty"`
	At       time.Time `json:"at"`
}

func newEvent(eventType, entityID, userID string) Event {
	return Event{
		EventID:  utils.GetUUID(),
		Type:     eventType,
		EntityID: entityID,
		UserID:   userID,
		At:       time.Now(),
	}
}

// Emit publishes an event to the Redis channel. Emit is fire-and-forget:
// a publish failure is logged, never surfaced to the request path.
func Emit(ctx context.Context, eventType, entityID, userID string) {
	if rdx.Conn == nil {
		return
	}

	data, err := json.Marshal(newEvent(eventType, entityID, userID))
	if err != nil {
		logger.L().Warn("mq: marshal event", zap.Error(err))
		return
	}

	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		logger.L().Warn("mq: publish event", zap.String("type", eventType), zap.Error(err))
	}
}

// StartEventWorker subscribes to the store channel and records every event.
// Runs until the context is cancelled.
func StartEventWorker(ctx context.Context) {
	if rdx.Conn == nil {
		return
	}

	sub := rdx.Conn.Subscribe(ctx, channel)
	defer sub.Close()
	ch := sub.Channel()

	logger.L().Info("mq: event worker listening", zap.String("channel", channel))

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.L().Warn("mq: bad event payload", zap.Error(err))
				continue
			}
			logger.L().Info("store event",
				zap.String("id", ev.EventID),
				zap.String("type", ev.Type),
				zap.String("entity", ev.EntityID),
				zap.String("user", ev.UserID),
			)
		}
	}
}
