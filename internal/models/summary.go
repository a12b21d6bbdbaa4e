package models

// DailySummaryModel is the AI-synthesized narrative for one calendar date.
// Regeneration inserts a new row; history is kept, not replaced.
type DailySummaryModel struct {
	Base
	SummaryDate        string      `json:"summary_date"         gorm:"index;not null"` // YYYY-MM-DD
	TotalRecordings    int         `json:"total_recordings"`
	OverallMood        int         `json:"overall_mood"`
	SummaryText        string      `json:"summary_text"         gorm:"type:text"`
	SelectedQuestions  StringArray `json:"selected_questions"   gorm:"type:text"`
	NextDaySuggestions StringArray `json:"next_day_suggestions" gorm:"type:text"`
}

func (DailySummaryModel) TableName() string { return "daily_summaries" }

// DiaryEntry is one chronological entry inside a weekly summary.
type DiaryEntry struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Entry string `json:"entry"`
}

// WeeklySummaryModel is the diary-style aggregation over a 7-day window.
// WeekEnd is always WeekStart + 6 days.
type WeeklySummaryModel struct {
	Base
	WeekStart         string       `json:"week_start"         gorm:"index;not null"` // YYYY-MM-DD
	WeekEnd           string       `json:"week_end"           gorm:"not null"`
	DiaryEntries      []DiaryEntry `json:"diary_entries"      gorm:"type:text;serializer:json"`
	TotalRecordings   int          `json:"total_recordings"`
	MotivationalQuote string       `json:"motivational_quote" gorm:"type:text"`
	QuoteContext      string       `json:"quote_context"      gorm:"type:text"`
}

func (WeeklySummaryModel) TableName() string { return "weekly_summaries" }
