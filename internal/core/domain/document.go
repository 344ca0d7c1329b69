package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
)

var (
	ErrInvalidGoals    = errors.New("invalid goals")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrInvalidImport   = errors.New("invalid import payload")
)

var reminderRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// HealthDocument is the single persisted record: profile, goals, settings and the
// day-by-day entries, most recent first.
type HealthDocument struct {
	User     map[string]any `json:"user"`
	Goals    Goals          `json:"goals"`
	Settings Settings       `json:"settings"`
	Entries  []Entry        `json:"entries"`
}

func NewEmptyDocument() *HealthDocument {
	return &HealthDocument{
		User:     map[string]any{},
		Goals:    Goals{},
		Settings: DefaultSettings(),
		Entries:  []Entry{},
	}
}

// Normalize folds entries sharing a date into one (later ones win) and sorts them
// descending by date. Nil maps and slices become empty ones.
func (d *HealthDocument) Normalize() {
	if d.User == nil {
		d.User = map[string]any{}
	}

	byDate := make(map[string]int, len(d.Entries))
	unique := make([]Entry, 0, len(d.Entries))
	for _, e := range d.Entries {
		if i, ok := byDate[e.Date.String()]; ok {
			unique[i] = unique[i].Merge(e)
			continue
		}
		byDate[e.Date.String()] = len(unique)
		unique = append(unique, e.Clone())
	}

	SortEntries(unique)
	d.Entries = unique
}

func (d *HealthDocument) Validate() error {
	for _, e := range d.Entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %s: %w", e.Date, err)
		}
	}
	if err := d.Goals.Validate(); err != nil {
		return err
	}
	return d.Settings.Validate()
}

// Clone returns a snapshot that shares nothing mutable with d.
func (d *HealthDocument) Clone() *HealthDocument {
	c := &HealthDocument{
		User:     make(map[string]any, len(d.User)),
		Goals:    d.Goals.Clone(),
		Settings: d.Settings.Clone(),
		Entries:  make([]Entry, len(d.Entries)),
	}
	for k, v := range d.User {
		c.User[k] = v
	}
	for i, e := range d.Entries {
		c.Entries[i] = e.Clone()
	}
	return c
}

// SortEntries orders entries most recent first.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}

// Goals holds per-metric targets. HeartRate may be a single target or a {min,max} range;
// only the range takes part in scoring.
type Goals struct {
	Steps     *float64       `json:"steps,omitempty"`
	Sleep     *float64       `json:"sleep,omitempty"`
	Water     *float64       `json:"water,omitempty"`
	Calories  *float64       `json:"calories,omitempty"`
	HeartRate *HeartRateGoal `json:"heartRate,omitempty"`
}

func (g Goals) Validate() error {
	targets := []struct {
		name  string
		value *float64
	}{
		{MetricSteps, g.Steps},
		{MetricSleep, g.Sleep},
		{MetricWater, g.Water},
		{MetricCalories, g.Calories},
	}
	for _, t := range targets {
		if t.value != nil && (*t.value < 0 || math.IsNaN(*t.value) || math.IsInf(*t.value, 0)) {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidGoals, t.name)
		}
	}
	if g.HeartRate != nil && g.HeartRate.IsRange && g.HeartRate.Min > g.HeartRate.Max {
		return fmt.Errorf("%w: heartRate min cannot exceed max", ErrInvalidGoals)
	}
	return nil
}

func (g Goals) Clone() Goals {
	c := Goals{}
	if g.Steps != nil {
		c.Steps = Ptr(*g.Steps)
	}
	if g.Sleep != nil {
		c.Sleep = Ptr(*g.Sleep)
	}
	if g.Water != nil {
		c.Water = Ptr(*g.Water)
	}
	if g.Calories != nil {
		c.Calories = Ptr(*g.Calories)
	}
	if g.HeartRate != nil {
		hr := *g.HeartRate
		c.HeartRate = &hr
	}
	return c
}

// Target returns the positive numeric goal for a metric, if one is set.
func (g Goals) Target(metric string) (float64, bool) {
	var p *float64
	switch metric {
	case MetricSteps:
		p = g.Steps
	case MetricSleep:
		p = g.Sleep
	case MetricWater:
		p = g.Water
	case MetricCalories:
		p = g.Calories
	case MetricHeartRate:
		if g.HeartRate != nil {
			if g.HeartRate.IsRange {
				return g.HeartRate.Midpoint(), true
			}
			return g.HeartRate.Target, g.HeartRate.Target > 0
		}
	}
	if p == nil || *p <= 0 {
		return 0, false
	}
	return *p, true
}

type HeartRateGoal struct {
	Min     float64
	Max     float64
	Target  float64
	IsRange bool
}

func HeartRateRange(min, max float64) *HeartRateGoal {
	return &HeartRateGoal{Min: min, Max: max, IsRange: true}
}

func (h HeartRateGoal) Midpoint() float64 {
	return (h.Min + h.Max) / 2
}

func (h HeartRateGoal) Contains(bpm float64) bool {
	return h.IsRange && bpm >= h.Min && bpm <= h.Max
}

func (h HeartRateGoal) MarshalJSON() ([]byte, error) {
	if !h.IsRange {
		return json.Marshal(h.Target)
	}
	return json.Marshal(struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	}{h.Min, h.Max})
}

func (h *HeartRateGoal) UnmarshalJSON(data []byte) error {
	var target float64
	if err := json.Unmarshal(data, &target); err == nil {
		*h = HeartRateGoal{Target: target}
		return nil
	}

	var rng struct {
		Min *float64 `json:"min"`
		Max *float64 `json:"max"`
	}
	if err := json.Unmarshal(data, &rng); err != nil {
		return fmt.Errorf("%w: heartRate must be a number or {min,max}", ErrInvalidGoals)
	}
	if rng.Min == nil || rng.Max == nil {
		return fmt.Errorf("%w: heartRate range needs both min and max", ErrInvalidGoals)
	}
	*h = HeartRateGoal{Min: *rng.Min, Max: *rng.Max, IsRange: true}
	return nil
}

type Settings struct {
	Theme         string  `json:"theme"`
	Notifications bool    `json:"notifications"`
	ReminderTime  *string `json:"reminderTime,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{Theme: ThemeLight, Notifications: true}
}

// UnmarshalJSON fills fields missing from older documents with their defaults.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	decoded := plain(DefaultSettings())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.Theme == "" {
		decoded.Theme = ThemeLight
	}
	*s = Settings(decoded)
	return nil
}

func (s Settings) Validate() error {
	switch s.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("%w: theme must be light or dark", ErrInvalidSettings)
	}
	if s.ReminderTime != nil && *s.ReminderTime != "" && !reminderRegex.MatchString(*s.ReminderTime) {
		return fmt.Errorf("%w: reminder time must be HH:MM 24h", ErrInvalidSettings)
	}
	return nil
}

func (s Settings) Clone() Settings {
	c := s
	if s.ReminderTime != nil {
		c.ReminderTime = Ptr(*s.ReminderTime)
	}
	return c
}

// Reminder returns the hour and minute of the daily reminder, if one is active.
func (s Settings) Reminder() (hour, minute int, ok bool) {
	if !s.Notifications || s.ReminderTime == nil || !reminderRegex.MatchString(*s.ReminderTime) {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(*s.ReminderTime, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, false
	}
	return hour, minute, true
}
