package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/foodmarket/internal/events"
	"github.com/Skotchmaster/foodmarket/internal/logging"
)

// publish is fire-and-forget: a broker outage never fails the request.
func publish(ctx context.Context, p events.Publisher, topic string, key uint, event map[string]any) {
	if p == nil {
		return
	}
	event["at"] = time.Now().UTC()
	if err := p.Publish(ctx, topic, strconv.FormatUint(uint64(key), 10), event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
