package summaries

import (
	"fmt"

	"github.com/ntkr/core/internal/models"
)

// dailyPayload is the structured daily-summary response. The schema demands
// exactly three questions and three suggestions.
type dailyPayload struct {
	SummaryText        string   `json:"summary_text"`
	OverallMood        int      `json:"overall_mood"`
	SelectedQuestions  []string `json:"selected_questions"`
	NextDaySuggestions []string `json:"next_day_suggestions"`
}

func (p *dailyPayload) validate() error {
	if p.SummaryText == "" {
		return fmt.Errorf("summary_text is empty")
	}
	if p.OverallMood < 1 || p.OverallMood > 10 {
		return fmt.Errorf("overall_mood %d out of range [1,10]", p.OverallMood)
	}
	if len(p.SelectedQuestions) != 3 {
		return fmt.Errorf("selected_questions has %d entries, want exactly 3", len(p.SelectedQuestions))
	}
	if len(p.NextDaySuggestions) != 3 {
		return fmt.Errorf("next_day_suggestions has %d entries, want exactly 3", len(p.NextDaySuggestions))
	}
	return nil
}

// weeklyPayload is the structured weekly-summary response.
type weeklyPayload struct {
	DiaryEntries      []models.DiaryEntry `json:"diary_entries"`
	MotivationalQuote string              `json:"motivational_quote"`
	QuoteContext      string              `json:"quote_context"`
}

func (p *weeklyPayload) validate() error {
	if len(p.DiaryEntries) == 0 {
		return fmt.Errorf("diary_entries is empty")
	}
	if p.MotivationalQuote == "" {
		return fmt.Errorf("motivational_quote is empty")
	}
	return nil
}

// FeedItem is one entry of the combined daily+weekly summary feed. Type is
// "daily" or "weekly"; SortDate is summary_date or week_start respectively.
type FeedItem struct {
	Type     string      `json:"type"`
	SortDate string      `json:"sort_date"`
	Summary  interface{} `json:"summary"`
}
