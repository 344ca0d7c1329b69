package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		shouldError bool
	}{
		{name: "Valid ISO date", input: "2024-01-03"},
		{name: "Leap day", input: "2024-02-29"},
		{name: "Not a leap year", input: "2023-02-29", shouldError: true},
		{name: "Missing zero padding", input: "2024-1-3", shouldError: true},
		{name: "Timestamp is not a date", input: "2024-01-03T10:00:00Z", shouldError: true},
		{name: "Empty", input: "", shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.shouldError {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, d.String())
		})
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := MustParseDate("2024-02-28")

	t.Run("AddDays crosses month boundaries", func(t *testing.T) {
		assert.Equal(t, "2024-03-01", d.AddDays(2).String())
		assert.Equal(t, "2024-01-29", d.AddDays(-30).String())
	})

	t.Run("Compare orders calendar days", func(t *testing.T) {
		later := MustParseDate("2024-03-01")
		assert.True(t, d.Before(later))
		assert.True(t, later.After(d))
		assert.True(t, d.Equal(MustParseDate("2024-02-28")))
		assert.Equal(t, 2, d.DaysUntil(later))
		assert.Equal(t, -2, later.DaysUntil(d))
	})

	t.Run("DateOf ignores time of day in the given zone", func(t *testing.T) {
		loc := time.FixedZone("UTC+9", 9*3600)
		late := time.Date(2024, 5, 10, 23, 30, 0, 0, loc)
		assert.Equal(t, "2024-05-10", DateOf(late).String())
	})
}

func TestDate_JSON(t *testing.T) {
	t.Run("Round trips as a plain string", func(t *testing.T) {
		d := MustParseDate("2024-01-03")
		data, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2024-01-03"`, string(data))

		var back Date
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, d.Equal(back))
	})

	t.Run("Rejects numbers and malformed strings", func(t *testing.T) {
		var d Date
		assert.ErrorIs(t, json.Unmarshal([]byte(`20240103`), &d), ErrInvalidDate)
		assert.ErrorIs(t, json.Unmarshal([]byte(`"03/01/2024"`), &d), ErrInvalidDate)
	})
}
