package notify

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-health/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-health/internal/core/workers"
)

type failingNotifier struct{ calls int }

func (f *failingNotifier) Notify(context.Context, workers.Reminder) error {
	f.calls++
	return errors.New("boom")
}

func TestLogNotifier(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := NewLogNotifier(logger)

	err := n.Notify(context.Background(), workers.Reminder{Time: "08:30", Message: "log it", FiredAt: time.Now()})
	require.NoError(t, err)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "log it", hook.LastEntry().Message)
	assert.Equal(t, "08:30", hook.LastEntry().Data["reminder_time"])
}

func TestMulti(t *testing.T) {
	logger, hook := test.NewNullLogger()
	failing := &failingNotifier{}

	m := Multi{failing, NewLogNotifier(logger)}
	err := m.Notify(context.Background(), workers.Reminder{Time: "08:30", Message: "log it"})

	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, failing.calls)
	assert.Len(t, hook.Entries, 1)
}

func TestRedisNotifier_Integration(t *testing.T) {
	ctx := context.Background()
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	rdb, err := cache.NewRedisClient(ctx, cache.RedisOptions{Host: host, Port: "6379", Password: os.Getenv("REDIS_PASSWORD"), DB: 1})
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	sub := rdb.Subscribe(ctx, "health:reminders")
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	n := NewRedisNotifier(rdb, "health:reminders")
	require.NoError(t, n.Notify(ctx, workers.Reminder{Time: "08:30", Message: "log it"}))

	select {
	case msg := <-sub.Channel():
		assert.Contains(t, msg.Payload, `"time":"08:30"`)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}
