package realtime

import (
	"context"
	"encoding/json"

	"eventhub/core/constants"
	"eventhub/core/logger"
	"eventhub/core/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Change types pushed on the event collection feed.
const (
	ChangeInsert = "insert"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
)

// ChangeRef identifies the deleted row on delete notifications.
type ChangeRef struct {
	ID uuid.UUID `json:"id"`
}

// Change is one notification on the feed. New carries the full record for
// insert/update; Old carries only the id for delete.
type Change struct {
	MessageID string          `json:"message_id"`
	Type      string          `json:"type"`
	New       json.RawMessage `json:"new,omitempty"`
	Old       *ChangeRef      `json:"old,omitempty"`
}

// Feed is the server-pushed change channel for the events collection.
// Subscribe returns a receive channel and a stop function; the channel is
// closed when the context is cancelled or stop is called. Delivery is
// at-least-once: consumers must tolerate duplicates.
type Feed interface {
	Publish(ctx context.Context, change Change) error
	Subscribe(ctx context.Context) (<-chan Change, func())
}

// RedisFeed implements Feed over a redis pub/sub channel.
type RedisFeed struct {
	client  *redis.Client
	channel string
}

func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{
		client:  client,
		channel: constants.RedisChannelEventChanges,
	}
}

func (f *RedisFeed) Publish(ctx context.Context, change Change) error {
	if change.MessageID == "" {
		change.MessageID = utils.GenerateID()
	}
	payload, err := json.Marshal(change)
	if err != nil {
		logger.Error("RedisFeed:Publish:Marshal:Error:", err)
		return err
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		logger.Error("RedisFeed:Publish:Error:", err)
		return err
	}
	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context) (<-chan Change, func()) {
	sub := f.client.Subscribe(ctx, f.channel)
	out := make(chan Change, 64)

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var change Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					logger.Error("RedisFeed:Subscribe:Unmarshal:Error:", err)
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	stop := func() {
		if err := sub.Close(); err != nil {
			logger.Error("RedisFeed:Subscribe:Close:Error:", err)
		}
	}
	return out, stop
}
