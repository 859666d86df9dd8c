package domain

// DaySummary is one bar of the weekly chart.
type DaySummary struct {
	Date      string `json:"date"`
	Label     string `json:"label"`
	Total     int    `json:"total"`
	Frequency int    `json:"frequency"`
	GoalMet   bool   `json:"goal_met"`
}

// WeeklySummary is the 7-day rollup, oldest day first.
type WeeklySummary struct {
	Days             []DaySummary `json:"days"`
	DailyTarget      int          `json:"daily_target"`
	AverageIntake    int          `json:"average_intake"`
	AverageFrequency int          `json:"average_frequency"`
}
