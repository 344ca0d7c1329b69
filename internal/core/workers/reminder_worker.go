package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

const reminderMessage = "Time to log today's health data."

type Reminder struct {
	Time    string    `json:"time"`
	FiredAt time.Time `json:"firedAt"`
	Message string    `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// ReminderWorker owns one goroutine and at most one armed timer. Schedule replaces
// whatever was armed before.
type ReminderWorker struct {
	notifier Notifier
	log      logrus.FieldLogger
	now      func() time.Time
	updates  chan domain.Settings
	done     chan struct{}
}

func NewReminderWorker(notifier Notifier, log logrus.FieldLogger) *ReminderWorker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ReminderWorker{
		notifier: notifier,
		log:      log.WithField("component", "reminder_worker"),
		now:      time.Now,
		updates:  make(chan domain.Settings, 1),
		done:     make(chan struct{}),
	}
}

func (w *ReminderWorker) WithClock(now func() time.Time) *ReminderWorker {
	w.now = now
	return w
}

func (w *ReminderWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Done is closed once the worker goroutine has returned.
func (w *ReminderWorker) Done() <-chan struct{} {
	return w.done
}

// Schedule hands new settings to the worker. Only the latest settings matter, so a
// pending update that the worker has not picked up yet is replaced.
func (w *ReminderWorker) Schedule(settings domain.Settings) {
	settings = settings.Clone()
	for {
		select {
		case w.updates <- settings:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}

func (w *ReminderWorker) run(ctx context.Context) {
	defer close(w.done)
	w.log.Info("reminder worker started")

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		current string
		hour    int
		minute  int
	)

	disarm := func() {
		if timer != nil {
			timer.Stop()
		}
		timer, fire = nil, nil
	}
	arm := func() {
		disarm()
		next := NextOccurrence(w.now(), hour, minute)
		timer = time.NewTimer(next.Sub(w.now()))
		fire = timer.C
		w.log.WithField("next", next.Format(time.RFC3339)).Debug("reminder armed")
	}

	for {
		select {
		case settings := <-w.updates:
			h, m, ok := settings.Reminder()
			if !ok {
				if current != "" {
					w.log.Info("reminder cancelled")
				}
				disarm()
				current = ""
				continue
			}
			hour, minute, current = h, m, *settings.ReminderTime
			arm()

		case <-fire:
			r := Reminder{Time: current, FiredAt: w.now(), Message: reminderMessage}
			if err := w.notifier.Notify(ctx, r); err != nil {
				w.log.WithError(err).Warn("reminder delivery failed")
			}
			arm()

		case <-ctx.Done():
			disarm()
			w.log.Info("reminder worker shutting down")
			return
		}
	}
}

// NextOccurrence returns the first hour:minute strictly after now, in now's location.
func NextOccurrence(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return next
}
