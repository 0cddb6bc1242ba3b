// Package notify dispatches out-of-band messages to users. Delivery itself
// (SMTP, SMS gateway) is done by consumers of the notification topic.
package notify

import (
	"context"
	"time"

	"github.com/Skotchmaster/foodmarket/internal/events"
	"github.com/Skotchmaster/foodmarket/internal/models"
)

type Notifier interface {
	PasswordReset(ctx context.Context, userID uint, channel models.ResetChannel, to, token string, expires time.Time) error
}

type PasswordResetMessage struct {
	Kind      string              `json:"kind"`
	UserID    uint                `json:"user_id"`
	Channel   models.ResetChannel `json:"channel"`
	To        string              `json:"to"`
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// EventNotifier hands notifications to the event bus.
type EventNotifier struct {
	Publisher events.Publisher
}

func (n *EventNotifier) PasswordReset(ctx context.Context, userID uint, channel models.ResetChannel, to, token string, expires time.Time) error {
	msg := PasswordResetMessage{
		Kind:      "password_reset",
		UserID:    userID,
		Channel:   channel,
		To:        to,
		Token:     token,
		ExpiresAt: expires,
	}
	return n.Publisher.Publish(ctx, events.TopicNotifications, to, msg)
}
