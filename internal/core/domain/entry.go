package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidEntry  = errors.New("invalid health entry data")
	ErrEntryNotFound = errors.New("health entry not found")
)

const (
	MetricSteps     = "steps"
	MetricHeartRate = "heartRate"
	MetricSleep     = "sleep"
	MetricWater     = "water"
	MetricCalories  = "calories"
	MetricMood      = "mood"

	MaxNotesLen = 1000
)

// Entry is one calendar day of logged metrics. A nil field was not logged, which is
// not the same as a logged zero.
type Entry struct {
	Date      Date     `json:"date"`
	Steps     *float64 `json:"steps,omitempty"`
	HeartRate *float64 `json:"heartRate,omitempty"`
	Sleep     *float64 `json:"sleep,omitempty"`
	Water     *float64 `json:"water,omitempty"`
	Calories  *float64 `json:"calories,omitempty"`
	Mood      *string  `json:"mood,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

// Ptr returns a pointer to v, for building entries with optional fields.
func Ptr[T any](v T) *T { return &v }

func (e Entry) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidEntry)
	}

	metrics := []struct {
		name  string
		value *float64
	}{
		{MetricSteps, e.Steps},
		{MetricHeartRate, e.HeartRate},
		{MetricSleep, e.Sleep},
		{MetricWater, e.Water},
		{MetricCalories, e.Calories},
	}
	for _, m := range metrics {
		if m.value == nil {
			continue
		}
		if math.IsNaN(*m.value) || math.IsInf(*m.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidEntry, m.name)
		}
		if *m.value < 0 {
			return fmt.Errorf("%w: %s cannot be negative", ErrInvalidEntry, m.name)
		}
	}

	if e.Sleep != nil && *e.Sleep > 24 {
		return fmt.Errorf("%w: sleep cannot exceed 24 hours", ErrInvalidEntry)
	}

	if e.Notes != nil && len(strings.TrimSpace(*e.Notes)) > MaxNotesLen {
		return fmt.Errorf("%w: notes are too long (max %d chars)", ErrInvalidEntry, MaxNotesLen)
	}

	return nil
}

// Merge returns a copy of e with every field present in update laid over it.
func (e Entry) Merge(update Entry) Entry {
	merged := e.Clone()
	if update.Steps != nil {
		merged.Steps = Ptr(*update.Steps)
	}
	if update.HeartRate != nil {
		merged.HeartRate = Ptr(*update.HeartRate)
	}
	if update.Sleep != nil {
		merged.Sleep = Ptr(*update.Sleep)
	}
	if update.Water != nil {
		merged.Water = Ptr(*update.Water)
	}
	if update.Calories != nil {
		merged.Calories = Ptr(*update.Calories)
	}
	if update.Mood != nil {
		merged.Mood = Ptr(*update.Mood)
	}
	if update.Notes != nil {
		merged.Notes = Ptr(*update.Notes)
	}
	return merged
}

// Clone deep-copies the pointer fields so callers never share state with the store.
func (e Entry) Clone() Entry {
	c := Entry{Date: e.Date}
	if e.Steps != nil {
		c.Steps = Ptr(*e.Steps)
	}
	if e.HeartRate != nil {
		c.HeartRate = Ptr(*e.HeartRate)
	}
	if e.Sleep != nil {
		c.Sleep = Ptr(*e.Sleep)
	}
	if e.Water != nil {
		c.Water = Ptr(*e.Water)
	}
	if e.Calories != nil {
		c.Calories = Ptr(*e.Calories)
	}
	if e.Mood != nil {
		c.Mood = Ptr(*e.Mood)
	}
	if e.Notes != nil {
		c.Notes = Ptr(*e.Notes)
	}
	return c
}

// Value returns the numeric metric by name, and whether it was logged.
func (e Entry) Value(metric string) (float64, bool) {
	var p *float64
	switch metric {
	case MetricSteps:
		p = e.Steps
	case MetricHeartRate:
		p = e.HeartRate
	case MetricSleep:
		p = e.Sleep
	case MetricWater:
		p = e.Water
	case MetricCalories:
		p = e.Calories
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

func valueOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func (e Entry) StepsOrZero() float64     { return valueOrZero(e.Steps) }
func (e Entry) HeartRateOrZero() float64 { return valueOrZero(e.HeartRate) }
func (e Entry) SleepOrZero() float64     { return valueOrZero(e.Sleep) }
func (e Entry) WaterOrZero() float64     { return valueOrZero(e.Water) }
func (e Entry) CaloriesOrZero() float64  { return valueOrZero(e.Calories) }
