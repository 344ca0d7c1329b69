package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
)

func fullGoals() domain.Goals {
	return domain.Goals{
		Steps:     domain.Ptr(10000.0),
		Sleep:     domain.Ptr(8.0),
		Water:     domain.Ptr(8.0),
		Calories:  domain.Ptr(2200.0),
		HeartRate: domain.HeartRateRange(60, 80),
	}
}

func TestCalculateStats(t *testing.T) {
	t.Run("Success: Empty Is All Zeros", func(t *testing.T) {
		assert.Equal(t, domain.Stats{}, services.CalculateStats(nil))
	})

	t.Run("Success: Missing Values Count As Zero", func(t *testing.T) {
		entries := []domain.Entry{
			{Date: day("2024-01-02"), Steps: domain.Ptr(6000.0), Sleep: domain.Ptr(8.0), HeartRate: domain.Ptr(70.0)},
			{Date: day("2024-01-01"), Steps: domain.Ptr(4000.0), Water: domain.Ptr(6.0), Calories: domain.Ptr(2000.0)},
		}

		stats := services.CalculateStats(entries)
		assert.Equal(t, 5000.0, stats.AvgSteps)
		assert.Equal(t, 4.0, stats.AvgSleep)
		assert.Equal(t, 35.0, stats.AvgHeartRate)
		assert.Equal(t, 3.0, stats.AvgWater)
		assert.Equal(t, 1000.0, stats.AvgCalories)
		assert.Equal(t, 2, stats.TotalEntries)
	})
}

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.Entry
		goals   domain.Goals
		want    int
	}{
		{
			name: "All goals met",
			entries: []domain.Entry{{
				Date: day("2024-01-03"), Steps: domain.Ptr(12000.0), Sleep: domain.Ptr(8.0), Water: domain.Ptr(8.0),
				HeartRate: domain.Ptr(70.0), Calories: domain.Ptr(2200.0),
			}},
			goals: fullGoals(),
			want:  100,
		},
		{
			name:    "Missing fields are omitted, not renormalized",
			entries: []domain.Entry{{Date: day("2024-01-04"), Steps: domain.Ptr(5000.0)}},
			goals:   domain.Goals{Steps: domain.Ptr(10000.0), Sleep: domain.Ptr(8.0)},
			want:    12,
		},
		{
			name:    "No goals scores zero",
			entries: []domain.Entry{{Date: day("2024-01-04"), Steps: domain.Ptr(50000.0), Sleep: domain.Ptr(9.0)}},
			goals:   domain.Goals{},
			want:    0,
		},
		{
			name:    "No entries scores zero",
			entries: nil,
			goals:   fullGoals(),
			want:    0,
		},
		{
			name:    "Heart rate outside range is penalized by distance",
			entries: []domain.Entry{{Date: day("2024-01-04"), HeartRate: domain.Ptr(100.0)}},
			goals:   fullGoals(),
			want:    9,
		},
		{
			name:    "Heart rate far outside range contributes nothing",
			entries: []domain.Entry{{Date: day("2024-01-04"), HeartRate: domain.Ptr(200.0)}},
			goals:   fullGoals(),
			want:    0,
		},
		{
			name:    "Heart rate needs a range goal",
			entries: []domain.Entry{{Date: day("2024-01-04"), HeartRate: domain.Ptr(70.0)}},
			goals:   domain.Goals{HeartRate: &domain.HeartRateGoal{Target: 70}},
			want:    0,
		},
		{
			name:    "Zero values are not counted",
			entries: []domain.Entry{{Date: day("2024-01-04"), Steps: domain.Ptr(0.0), Water: domain.Ptr(4.0)}},
			goals:   fullGoals(),
			want:    10,
		},
		{
			name: "Only the latest entry counts",
			entries: []domain.Entry{
				{Date: day("2024-01-05"), Water: domain.Ptr(8.0)},
				{Date: day("2024-01-04"), Steps: domain.Ptr(10000.0)},
			},
			goals: fullGoals(),
			want:  20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.CalculateHealthScore(tt.entries, tt.goals))
		})
	}
}

func TestCalculateHealthScore_Monotonic(t *testing.T) {
	goals := fullGoals()
	base := domain.Entry{
		Date: day("2024-01-04"), Steps: domain.Ptr(3000.0), Sleep: domain.Ptr(5.0), Water: domain.Ptr(3.0),
		HeartRate: domain.Ptr(110.0), Calories: domain.Ptr(900.0),
	}

	bump := map[string]func(e *domain.Entry, step float64){
		"steps":     func(e *domain.Entry, s float64) { *e.Steps += 1000 * s },
		"sleep":     func(e *domain.Entry, s float64) { *e.Sleep += 0.5 * s },
		"water":     func(e *domain.Entry, s float64) { *e.Water += s },
		"calories":  func(e *domain.Entry, s float64) { *e.Calories += 200 * s },
		"heartRate": func(e *domain.Entry, s float64) { *e.HeartRate -= 5 * s },
	}

	for metric, apply := range bump {
		t.Run(metric, func(t *testing.T) {
			e := base.Clone()
			prev := services.CalculateHealthScore([]domain.Entry{e}, goals)
			for i := 0; i < 20; i++ {
				apply(&e, 1)
				if *e.HeartRate < 70 {
					*e.HeartRate = 70
				}
				score := services.CalculateHealthScore([]domain.Entry{e}, goals)
				require.GreaterOrEqual(t, score, prev)
				require.LessOrEqual(t, score, 100)
				require.GreaterOrEqual(t, score, 0)
				prev = score
			}
		})
	}
}

func TestDetectHealthFlags(t *testing.T) {
	t.Run("Success: Single Day And Chronic Sleep", func(t *testing.T) {
		entries := []domain.Entry{
			{Date: day("2024-01-04"), Sleep: domain.Ptr(5.0), HeartRate: domain.Ptr(60.0), Water: domain.Ptr(4.0), Steps: domain.Ptr(5000.0)},
			{Date: day("2024-01-03"), Sleep: domain.Ptr(5.5)},
			{Date: day("2024-01-02"), Sleep: domain.Ptr(4.0)},
			{Date: day("2024-01-01"), Sleep: domain.Ptr(5.9)},
		}

		flags := services.DetectHealthFlags(entries, domain.Goals{})
		require.Len(t, flags, 2)
		assert.Equal(t, domain.FlagDanger, flags[0].Type)
		assert.Equal(t, domain.MetricSleep, flags[0].Metric)
		assert.Equal(t, domain.FlagDanger, flags[1].Type)
		assert.Contains(t, flags[1].Message, "Chronic")
	})

	t.Run("Success: Rules Fire In Order", func(t *testing.T) {
		entries := []domain.Entry{
			{Date: day("2024-01-04"), Sleep: domain.Ptr(4.0), HeartRate: domain.Ptr(120.0), Water: domain.Ptr(1.0), Steps: domain.Ptr(500.0)},
		}

		flags := services.DetectHealthFlags(entries, domain.Goals{})
		require.Len(t, flags, 4)
		metrics := []string{flags[0].Metric, flags[1].Metric, flags[2].Metric, flags[3].Metric}
		assert.Equal(t, []string{domain.MetricSleep, domain.MetricHeartRate, domain.MetricWater, domain.MetricSteps}, metrics)
		assert.Equal(t, domain.FlagDanger, flags[0].Type)
		assert.Equal(t, domain.FlagWarning, flags[1].Type)
	})

	t.Run("Success: Missing Fields Raise Nothing", func(t *testing.T) {
		flags := services.DetectHealthFlags([]domain.Entry{{Date: day("2024-01-04")}}, domain.Goals{})
		assert.Empty(t, flags)
	})

	t.Run("Success: Chronic Needs Three Entries", func(t *testing.T) {
		entries := []domain.Entry{
			{Date: day("2024-01-04"), Sleep: domain.Ptr(5.0)},
			{Date: day("2024-01-03"), Sleep: domain.Ptr(5.0)},
		}
		flags := services.DetectHealthFlags(entries, domain.Goals{})
		assert.Len(t, flags, 1)
	})

	t.Run("Success: Chronic Broken By One Good Night", func(t *testing.T) {
		entries := []domain.Entry{
			{Date: day("2024-01-04"), Sleep: domain.Ptr(5.0)},
			{Date: day("2024-01-03"), Sleep: domain.Ptr(7.0)},
			{Date: day("2024-01-02"), Sleep: domain.Ptr(5.0)},
		}
		flags := services.DetectHealthFlags(entries, domain.Goals{})
		assert.Len(t, flags, 1)
	})

	t.Run("Success: No Entries", func(t *testing.T) {
		flags := services.DetectHealthFlags(nil, domain.Goals{})
		assert.NotNil(t, flags)
		assert.Empty(t, flags)
	})
}
