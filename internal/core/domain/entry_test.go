package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntry_Validate(t *testing.T) {
	date := MustParseDate("2024-01-03")

	tests := []struct {
		name        string
		entry       Entry
		shouldError bool
	}{
		{name: "Valid full entry", entry: Entry{Date: date, Steps: Ptr(8000.0), Sleep: Ptr(7.5), Mood: Ptr("good")}},
		{name: "Date only", entry: Entry{Date: date}},
		{name: "Missing date", entry: Entry{Steps: Ptr(10.0)}, shouldError: true},
		{name: "Negative steps", entry: Entry{Date: date, Steps: Ptr(-1.0)}, shouldError: true},
		{name: "NaN heart rate", entry: Entry{Date: date, HeartRate: Ptr(math.NaN())}, shouldError: true},
		{name: "More than a day of sleep", entry: Entry{Date: date, Sleep: Ptr(25.0)}, shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.shouldError {
				assert.ErrorIs(t, err, ErrInvalidEntry)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEntry_Merge(t *testing.T) {
	old := Entry{
		Date:  MustParseDate("2024-01-03"),
		Steps: Ptr(5000.0),
		Sleep: Ptr(6.0),
		Notes: Ptr("tired"),
	}
	update := Entry{
		Date:  old.Date,
		Steps: Ptr(9000.0),
		Water: Ptr(4.0),
		Notes: Ptr(""),
	}

	merged := old.Merge(update)

	t.Run("New fields win", func(t *testing.T) {
		assert.Equal(t, 9000.0, *merged.Steps)
		assert.Equal(t, 4.0, *merged.Water)
		assert.Equal(t, "", *merged.Notes, "an explicitly empty note still overrides")
	})

	t.Run("Unspecified fields are retained", func(t *testing.T) {
		assert.Equal(t, 6.0, *merged.Sleep)
		assert.Nil(t, merged.HeartRate)
	})

	t.Run("Neither input is aliased", func(t *testing.T) {
		*merged.Sleep = 1
		assert.Equal(t, 6.0, *old.Sleep)
		*merged.Steps = 1
		assert.Equal(t, 9000.0, *update.Steps)
	})
}

func TestEntry_Value(t *testing.T) {
	e := Entry{Date: MustParseDate("2024-01-03"), Water: Ptr(0.0)}

	v, ok := e.Value(MetricWater)
	assert.True(t, ok, "a logged zero is still logged")
	assert.Equal(t, 0.0, v)

	_, ok = e.Value(MetricSteps)
	assert.False(t, ok)
	assert.Equal(t, 0.0, e.StepsOrZero())
}
