package services

import (
	"sort"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

// CalculateStreak counts consecutive logged days. The current streak is alive if the
// latest entry is today or yesterday.
func CalculateStreak(entries []domain.Entry, today domain.Date) domain.Streak {
	if len(entries) == 0 {
		return domain.Streak{}
	}

	uniqueDays := make(map[string]bool)
	var sortedDates []domain.Date
	for _, e := range entries {
		key := e.Date.String()
		if !uniqueDays[key] {
			uniqueDays[key] = true
			sortedDates = append(sortedDates, e.Date)
		}
	}

	sort.Slice(sortedDates, func(i, j int) bool {
		return sortedDates[i].After(sortedDates[j])
	})

	currentStreak := 0
	diff := sortedDates[0].DaysUntil(today)

	if diff >= 0 && diff <= 1 {
		currentStreak = 1
		for i := 0; i < len(sortedDates)-1; i++ {
			if sortedDates[i+1].DaysUntil(sortedDates[i]) == 1 {
				currentStreak++
			} else {
				break
			}
		}
	}

	longestStreak := 0
	tempStreak := 1
	for i := 0; i < len(sortedDates)-1; i++ {
		if sortedDates[i+1].DaysUntil(sortedDates[i]) == 1 {
			tempStreak++
		} else {
			if tempStreak > longestStreak {
				longestStreak = tempStreak
			}
			tempStreak = 1
		}
	}
	if tempStreak > longestStreak {
		longestStreak = tempStreak
	}

	return domain.Streak{Current: currentStreak, Longest: longestStreak}
}
