package domain

const (
	FlagWarning = "warning"
	FlagDanger  = "danger"
)

type Stats struct {
	AvgSteps     float64 `json:"avgSteps"`
	AvgHeartRate float64 `json:"avgHeartRate"`
	AvgSleep     float64 `json:"avgSleep"`
	AvgWater     float64 `json:"avgWater"`
	AvgCalories  float64 `json:"avgCalories"`
	TotalEntries int     `json:"totalEntries"`
}

type Flag struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Metric  string `json:"metric"`
}

type Recommendation struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

type Dashboard struct {
	Date            string           `json:"date,omitempty"`
	Stats           Stats            `json:"stats"`
	HealthScore     int              `json:"healthScore"`
	Flags           []Flag           `json:"flags"`
	Recommendations []Recommendation `json:"recommendations"`
	Streak          Streak           `json:"streak"`
}

type WeeklyStats struct {
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	DaysLogged  int          `json:"days_logged"`
	OverallRate float64      `json:"overall_completion_rate"`
	MetricStats []MetricStat `json:"metrics"`
}

type MetricStat struct {
	Metric         string    `json:"metric"`
	TargetValue    float64   `json:"target_value"`
	TotalValue     float64   `json:"total_value"`
	Average        float64   `json:"average"`
	CompletionRate float64   `json:"completion_rate"`
	DaysCompleted  int       `json:"days_completed"`
	DailyProgress  []float64 `json:"daily_progress"`
}

type StatsInput struct {
	StartDate Date
	EndDate   Date
}
