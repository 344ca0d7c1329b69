package services

import (
	"math"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

// Score weights. They add up to 100 and are never rescaled when a component is missing.
const (
	stepsWeight     = 25.0
	sleepWeight     = 25.0
	waterWeight     = 20.0
	heartRateWeight = 15.0
	caloriesWeight  = 15.0

	heartRatePenaltyDivisor = 5.0
	chronicSleepWindow      = 3
)

// CalculateStats averages every metric over all entries, counting unlogged values as zero.
func CalculateStats(entries []domain.Entry) domain.Stats {
	if len(entries) == 0 {
		return domain.Stats{}
	}

	var steps, heartRate, sleep, water, calories float64
	for _, e := range entries {
		steps += e.StepsOrZero()
		heartRate += e.HeartRateOrZero()
		sleep += e.SleepOrZero()
		water += e.WaterOrZero()
		calories += e.CaloriesOrZero()
	}

	n := float64(len(entries))
	return domain.Stats{
		AvgSteps:     steps / n,
		AvgHeartRate: heartRate / n,
		AvgSleep:     sleep / n,
		AvgWater:     water / n,
		AvgCalories:  calories / n,
		TotalEntries: len(entries),
	}
}

// CalculateHealthScore scores the most recent entry (entries[0]) against goals, 0 to 100.
// A component counts only when both the logged value and its goal are set and non-zero.
func CalculateHealthScore(entries []domain.Entry, goals domain.Goals) int {
	if len(entries) == 0 {
		return 0
	}
	latest := entries[0]

	score := ratioComponent(latest.Steps, goals.Steps, stepsWeight) +
		ratioComponent(latest.Sleep, goals.Sleep, sleepWeight) +
		ratioComponent(latest.Water, goals.Water, waterWeight) +
		heartRateComponent(latest.HeartRate, goals.HeartRate) +
		ratioComponent(latest.Calories, goals.Calories, caloriesWeight)

	rounded := int(math.RoundToEven(score))
	return max(0, min(rounded, 100))
}

func ratioComponent(value, goal *float64, weight float64) float64 {
	if value == nil || *value <= 0 || goal == nil || *goal <= 0 {
		return 0
	}
	return math.Min(*value / *goal * weight, weight)
}

func heartRateComponent(bpm *float64, goal *domain.HeartRateGoal) float64 {
	if bpm == nil || *bpm <= 0 || goal == nil || !goal.IsRange {
		return 0
	}
	if goal.Contains(*bpm) {
		return heartRateWeight
	}
	distance := math.Abs(*bpm - goal.Midpoint())
	return math.Max(heartRateWeight-distance/heartRatePenaltyDivisor, 0)
}

type flagRule struct {
	metric  string
	kind    string
	message string
	applies func(e domain.Entry) bool
}

func below(metric string, limit float64) func(domain.Entry) bool {
	return func(e domain.Entry) bool {
		v, ok := e.Value(metric)
		return ok && v < limit
	}
}

func above(metric string, limit float64) func(domain.Entry) bool {
	return func(e domain.Entry) bool {
		v, ok := e.Value(metric)
		return ok && v > limit
	}
}

// Evaluated against the latest entry, in this order.
var latestEntryFlags = []flagRule{
	{domain.MetricSleep, domain.FlagDanger, "Sleep below 6 hours. Aim for 7-9 hours of rest.", below(domain.MetricSleep, 6)},
	{domain.MetricHeartRate, domain.FlagWarning, "Resting heart rate above 100 bpm. Consider checking with a doctor.", above(domain.MetricHeartRate, 100)},
	{domain.MetricWater, domain.FlagWarning, "Low water intake. Try to drink at least 8 glasses a day.", below(domain.MetricWater, 3)},
	{domain.MetricSteps, domain.FlagWarning, "Very low activity today. Even a short walk helps.", below(domain.MetricSteps, 2000)},
}

// DetectHealthFlags applies the threshold rules to the latest entry, then the chronic sleep look-back.
func DetectHealthFlags(entries []domain.Entry, goals domain.Goals) []domain.Flag {
	flags := []domain.Flag{}
	if len(entries) == 0 {
		return flags
	}

	latest := entries[0]
	for _, rule := range latestEntryFlags {
		if rule.applies(latest) {
			flags = append(flags, domain.Flag{Type: rule.kind, Message: rule.message, Metric: rule.metric})
		}
	}

	if chronicSleepDeprivation(entries) {
		flags = append(flags, domain.Flag{
			Type:    domain.FlagDanger,
			Message: "Chronic sleep deprivation: under 6 hours for 3 days in a row.",
			Metric:  domain.MetricSleep,
		})
	}

	return flags
}

func chronicSleepDeprivation(entries []domain.Entry) bool {
	if len(entries) < chronicSleepWindow {
		return false
	}
	short := below(domain.MetricSleep, 6)
	for _, e := range entries[:chronicSleepWindow] {
		if !short(e) {
			return false
		}
	}
	return true
}
