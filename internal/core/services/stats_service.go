package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

const MaxStatsRangeDays = 366

var ErrInvalidRange = errors.New("invalid date range")

var weeklyMetrics = []string{
	domain.MetricSteps,
	domain.MetricSleep,
	domain.MetricWater,
	domain.MetricHeartRate,
	domain.MetricCalories,
}

type StatsService struct {
	store *RecordStore
}

func NewStatsService(store *RecordStore) *StatsService {
	return &StatsService{
		store: store,
	}
}

// Today is the store's current calendar day.
func (s *StatsService) Today() domain.Date {
	return s.store.Today()
}

func (s *StatsService) Stats(ctx context.Context) domain.Stats {
	return CalculateStats(s.store.GetEntries(ctx))
}

func (s *StatsService) HealthScore(ctx context.Context) int {
	return CalculateHealthScore(s.store.GetEntries(ctx), s.store.GetGoals(ctx))
}

func (s *StatsService) Flags(ctx context.Context) []domain.Flag {
	return DetectHealthFlags(s.store.GetEntries(ctx), s.store.GetGoals(ctx))
}

// Recommendations are drawn from the latest entry.
func (s *StatsService) Recommendations(ctx context.Context) []domain.Recommendation {
	entries := s.store.GetEntries(ctx)
	if len(entries) == 0 {
		return []domain.Recommendation{}
	}
	return Recommend(entries[0], s.store.GetGoals(ctx))
}

// Dashboard computes everything from a single snapshot of the document.
func (s *StatsService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	doc, err := s.store.GetAll(ctx)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		doc = domain.NewEmptyDocument()
	} else if err != nil {
		return nil, err
	}

	dash := &domain.Dashboard{
		Stats:           CalculateStats(doc.Entries),
		HealthScore:     CalculateHealthScore(doc.Entries, doc.Goals),
		Flags:           DetectHealthFlags(doc.Entries, doc.Goals),
		Recommendations: []domain.Recommendation{},
		Streak:          CalculateStreak(doc.Entries, s.store.Today()),
	}
	if len(doc.Entries) > 0 {
		dash.Date = doc.Entries[0].Date.String()
		dash.Recommendations = Recommend(doc.Entries[0], doc.Goals)
	}
	return dash, nil
}

// GetWeeklyStats builds a per-metric daily series over [StartDate, EndDate], zero-filling days
// without an entry. A day counts as completed when the value reaches the metric's target
// (for heart rate: falls inside the goal range).
func (s *StatsService) GetWeeklyStats(ctx context.Context, input domain.StatsInput) (*domain.WeeklyStats, error) {
	startDate, endDate := input.StartDate, input.EndDate
	if startDate.IsZero() || endDate.IsZero() || startDate.After(endDate) {
		return nil, fmt.Errorf("%w: start must not be after end", ErrInvalidRange)
	}
	if startDate.DaysUntil(endDate) > MaxStatsRangeDays {
		return nil, fmt.Errorf("%w: range too large, max %d days", ErrInvalidRange, MaxStatsRangeDays)
	}

	entries, err := s.store.GetEntriesInRange(ctx, startDate, endDate)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		entries = []domain.Entry{}
	} else if err != nil {
		return nil, err
	}
	goals := s.store.GetGoals(ctx)

	byDate := make(map[string]domain.Entry, len(entries))
	for _, e := range entries {
		byDate[e.Date.String()] = e
	}

	stats := &domain.WeeklyStats{
		StartDate:   startDate.String(),
		EndDate:     endDate.String(),
		DaysLogged:  len(entries),
		MetricStats: make([]domain.MetricStat, 0, len(weeklyMetrics)),
	}

	totalDaysPossible := 0
	totalDaysCompleted := 0

	for _, metric := range weeklyMetrics {
		mStat := domain.MetricStat{
			Metric:        metric,
			DailyProgress: make([]float64, 0),
		}
		targetValue, hasTarget := goals.Target(metric)
		mStat.TargetValue = targetValue

		daysInPeriod := 0
		daysAchieved := 0
		daysWithValue := 0

		for current := startDate; !current.After(endDate); current = current.AddDays(1) {
			val, logged := byDate[current.String()].Value(metric)

			mStat.TotalValue += val
			mStat.DailyProgress = append(mStat.DailyProgress, val)
			if logged {
				daysWithValue++
			}

			if logged && hasTarget && goalMet(metric, val, targetValue, goals) {
				daysAchieved++
			}
			daysInPeriod++
		}

		mStat.DaysCompleted = daysAchieved
		if daysWithValue > 0 {
			mStat.Average = mStat.TotalValue / float64(daysWithValue)
		}
		if hasTarget && daysInPeriod > 0 {
			mStat.CompletionRate = float64(daysAchieved) / float64(daysInPeriod) * 100
			totalDaysPossible += daysInPeriod
			totalDaysCompleted += daysAchieved
		}

		stats.MetricStats = append(stats.MetricStats, mStat)
	}

	if totalDaysPossible > 0 {
		stats.OverallRate = float64(totalDaysCompleted) / float64(totalDaysPossible) * 100
	}

	return stats, nil
}

func goalMet(metric string, val, targetValue float64, goals domain.Goals) bool {
	if metric == domain.MetricHeartRate {
		if goals.HeartRate != nil && goals.HeartRate.IsRange {
			return goals.HeartRate.Contains(val)
		}
		return val > 0 && val <= targetValue
	}
	return val >= targetValue
}
