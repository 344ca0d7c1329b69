package services

import (
	"math"
	"strings"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

const (
	CategoryActivity  = "activity"
	CategorySleep     = "sleep"
	CategoryHydration = "hydration"
	CategoryHeart     = "heart"
	CategoryNutrition = "nutrition"
	CategoryMood      = "mood"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Used when the profile has no goal for a metric.
var fallbackTargets = map[string]float64{
	domain.MetricSteps:    10000,
	domain.MetricSleep:    8,
	domain.MetricWater:    8,
	domain.MetricCalories: 2000,
}

type recommendationRule struct {
	category string
	priority string
	message  string
	applies  func(e domain.Entry, g domain.Goals) bool
}

func target(g domain.Goals, metric string) float64 {
	if t, ok := g.Target(metric); ok {
		return t
	}
	return fallbackTargets[metric]
}

// ratioBetween matches when the logged value is within [lo, hi) of the target.
func ratioBetween(metric string, lo, hi float64) func(domain.Entry, domain.Goals) bool {
	return func(e domain.Entry, g domain.Goals) bool {
		v, ok := e.Value(metric)
		t := target(g, metric)
		if !ok || t <= 0 {
			return false
		}
		r := v / t
		return r >= lo && r < hi
	}
}

var inf = math.Inf(1)

func valueAbove(metric string, limit float64) func(domain.Entry, domain.Goals) bool {
	return func(e domain.Entry, _ domain.Goals) bool {
		v, ok := e.Value(metric)
		return ok && v > limit
	}
}

func valueBetween(metric string, lo, hi float64) func(domain.Entry, domain.Goals) bool {
	return func(e domain.Entry, _ domain.Goals) bool {
		v, ok := e.Value(metric)
		return ok && v >= lo && v < hi
	}
}

func aboveHeartRange(e domain.Entry, g domain.Goals) bool {
	v, ok := e.Value(domain.MetricHeartRate)
	return ok && v <= 100 && g.HeartRate != nil && g.HeartRate.IsRange && v > g.HeartRate.Max
}

func moodIn(moods ...string) func(domain.Entry, domain.Goals) bool {
	return func(e domain.Entry, _ domain.Goals) bool {
		if e.Mood == nil {
			return false
		}
		m := strings.ToLower(strings.TrimSpace(*e.Mood))
		for _, want := range moods {
			if m == want {
				return true
			}
		}
		return false
	}
}

var recommendationTable = []recommendationRule{
	{CategoryActivity, PriorityHigh, "You are well below your step goal. Try a 20 minute walk after your next meal.", ratioBetween(domain.MetricSteps, 0, 0.5)},
	{CategoryActivity, PriorityMedium, "You are getting closer to your step goal. Take the stairs or a short walk to close the gap.", ratioBetween(domain.MetricSteps, 0.5, 1)},
	{CategoryActivity, PriorityLow, "Step goal reached. Keep the streak going tomorrow.", ratioBetween(domain.MetricSteps, 1, inf)},

	{CategorySleep, PriorityHigh, "You slept less than 6 hours. Go to bed earlier tonight and avoid screens for the last hour.", valueBetween(domain.MetricSleep, 0, 6)},
	{CategorySleep, PriorityMedium, "Your sleep is below target. A consistent bedtime helps.", func(e domain.Entry, g domain.Goals) bool {
		v, ok := e.Value(domain.MetricSleep)
		return ok && v >= 6 && v < target(g, domain.MetricSleep)
	}},
	{CategorySleep, PriorityLow, "More than 9 hours of sleep. Oversleeping can leave you groggy.", valueAbove(domain.MetricSleep, 9)},

	{CategoryHydration, PriorityHigh, "You drank less than half your water goal. Keep a bottle within reach.", ratioBetween(domain.MetricWater, 0, 0.5)},
	{CategoryHydration, PriorityMedium, "A few more glasses of water will get you to your goal.", ratioBetween(domain.MetricWater, 0.5, 1)},

	{CategoryHeart, PriorityHigh, "Your heart rate is above 100 bpm. Rest, and consult a doctor if it persists.", valueAbove(domain.MetricHeartRate, 100)},
	{CategoryHeart, PriorityMedium, "Your heart rate is above your target range. Breathing exercises can help you relax.", aboveHeartRange},
	{CategoryHeart, PriorityMedium, "Your heart rate is below 50 bpm. Fine for athletes, otherwise worth mentioning to a doctor.", valueBetween(domain.MetricHeartRate, 1, 50)},

	{CategoryNutrition, PriorityMedium, "Calories are more than 20% over target. Favour vegetables and lean protein.", ratioBetween(domain.MetricCalories, 1.2, inf)},
	{CategoryNutrition, PriorityMedium, "Calories are well under target. Make sure you are eating enough to fuel your day.", ratioBetween(domain.MetricCalories, 0, 0.7)},

	{CategoryMood, PriorityMedium, "Feeling low? A walk outside or a chat with a friend can lift your mood.", moodIn("sad", "bad", "down", "depressed")},
	{CategoryMood, PriorityMedium, "Feeling stressed? Try five minutes of slow breathing.", moodIn("stressed", "anxious", "angry")},
}

// Recommend returns the tips whose rule matches the entry, in table order.
func Recommend(entry domain.Entry, goals domain.Goals) []domain.Recommendation {
	recs := []domain.Recommendation{}
	for _, rule := range recommendationTable {
		if rule.applies(entry, goals) {
			recs = append(recs, domain.Recommendation{
				Category: rule.category,
				Priority: rule.priority,
				Message:  rule.message,
			})
		}
	}
	return recs
}
