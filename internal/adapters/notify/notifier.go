package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-health/internal/core/workers"
)

var (
	_ workers.Notifier = (*LogNotifier)(nil)
	_ workers.Notifier = (*RedisNotifier)(nil)
)

// LogNotifier writes reminders to the log.
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, r workers.Reminder) error {
	n.log.WithFields(logrus.Fields{
		"reminder_time": r.Time,
		"fired_at":      r.FiredAt,
	}).Info(r.Message)
	return nil
}

// RedisNotifier publishes reminders as JSON on a pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, r workers.Reminder) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("notify: encode reminder: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("notify: publish to %s: %w", n.channel, err)
	}
	return nil
}

// Multi delivers to every notifier and returns the first error.
type Multi []workers.Notifier

func (m Multi) Notify(ctx context.Context, r workers.Reminder) error {
	var firstErr error
	for _, n := range m {
		if err := n.Notify(ctx, r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
