package summaries

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ntkr/core/internal/models"
	"github.com/ntkr/core/internal/modules/ai"
	"github.com/ntkr/core/internal/pkg/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoNotesInRange distinguishes "nothing to summarize" from an upstream
// failure; a summary is never fabricated for an empty window.
var ErrNoNotesInRange = errors.New("no voice notes found in range")

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.ParseInLocation("2006-01-02", s, time.Local)
	return err == nil
}

type Service struct {
	db  *gorm.DB
	ai  ai.Client
	log *zap.Logger
}

func NewService(db *gorm.DB, aiClient ai.Client, log *zap.Logger) *Service {
	return &Service{db: db, ai: aiClient, log: log}
}

// notesInWindow returns notes created within [start, end), oldest first.
func (s *Service) notesInWindow(ctx context.Context, start, end time.Time) ([]models.VoiceNoteModel, error) {
	var notes []models.VoiceNoteModel
	err := s.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	for i := range notes {
		notes[i].Normalize()
	}
	return notes, nil
}

func dayWindow(date string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}

// WeekEnd computes the inclusive last day of a 7-day window.
func WeekEnd(weekStart string) (string, error) {
	start, err := time.ParseInLocation("2006-01-02", weekStart, time.Local)
	if err != nil {
		return "", err
	}
	return start.AddDate(0, 0, 6).Format("2006-01-02"), nil
}

// GenerateDaily synthesizes and stores a daily summary. Always inserts a new
// row; regenerating a date keeps the older rows as history.
func (s *Service) GenerateDaily(ctx context.Context, date string) (*models.DailySummaryModel, error) {
	if !ValidDate(date) {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}

	start, end, err := dayWindow(date)
	if err != nil {
		return nil, err
	}
	notes, err := s.notesInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrNoNotesInRange
	}

	transcriptions := make([]string, 0, len(notes))
	var questions []string
	for _, note := range notes {
		transcriptions = append(transcriptions, note.Transcription)
		questions = append(questions, note.FollowUpQuestions...)
	}

	s.log.Info("generating daily summary", zap.String("date", date), zap.Int("notes", len(notes)))

	var payload dailyPayload
	system, prompt := buildDailyPrompt(date, len(notes), strings.Join(transcriptions, "\n\n"), questions)
	if err := s.ai.GenerateObject(ctx, ai.TaskDailySummary, system, prompt, &payload); err != nil {
		return nil, fmt.Errorf("daily summary generation: %w", err)
	}
	if err := payload.validate(); err != nil {
		return nil, fmt.Errorf("daily summary generation: %w", err)
	}

	summary := models.DailySummaryModel{
		SummaryDate:        date,
		TotalRecordings:    len(notes),
		OverallMood:        payload.OverallMood,
		SummaryText:        payload.SummaryText,
		SelectedQuestions:  models.StringArray(payload.SelectedQuestions),
		NextDaySuggestions: models.StringArray(payload.NextDaySuggestions),
	}
	if err := s.db.WithContext(ctx).Create(&summary).Error; err != nil {
		return nil, fmt.Errorf("save daily summary: %w", err)
	}
	return &summary, nil
}

// RegenerateDaily is the fire-and-forget entry used after enrichment
// completes.
func (s *Service) RegenerateDaily(ctx context.Context, date string) error {
	_, err := s.GenerateDaily(ctx, date)
	return err
}

// GenerateWeekly synthesizes and stores a weekly summary over the 7-day
// window starting at weekStart, folding any in-window daily summaries into
// the prompt context.
func (s *Service) GenerateWeekly(ctx context.Context, weekStart string) (*models.WeeklySummaryModel, error) {
	if !ValidDate(weekStart) {
		return nil, fmt.Errorf("invalid week start %q, want YYYY-MM-DD", weekStart)
	}

	start, _, err := dayWindow(weekStart)
	if err != nil {
		return nil, err
	}
	end := start.AddDate(0, 0, 7)
	weekEnd := start.AddDate(0, 0, 6).Format("2006-01-02")

	notes, err := s.notesInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrNoNotesInRange
	}

	var dailies []models.DailySummaryModel
	if err := s.db.WithContext(ctx).
		Where("summary_date >= ? AND summary_date <= ?", weekStart, weekEnd).
		Order("summary_date ASC").
		Find(&dailies).Error; err != nil {
		return nil, err
	}

	dailyLines := make([]string, 0, len(dailies))
	for _, d := range dailies {
		dailyLines = append(dailyLines, fmt.Sprintf("%s: %s", d.SummaryDate, d.SummaryText))
	}
	noteLines := make([]string, 0, len(notes))
	for _, n := range notes {
		line := fmt.Sprintf("[%s %s] %s", n.RecordedDate, n.RecordedTime, n.Transcription)
		if n.Location != "" {
			line += fmt.Sprintf(" (at %s)", n.Location)
		}
		noteLines = append(noteLines, line)
	}

	s.log.Info("generating weekly summary",
		zap.String("week_start", weekStart),
		zap.String("week_end", weekEnd),
		zap.Int("notes", len(notes)),
		zap.Int("daily_summaries", len(dailies)))

	var payload weeklyPayload
	system, prompt := buildWeeklyPrompt(weekStart, weekEnd, len(notes), strings.Join(dailyLines, "\n"), strings.Join(noteLines, "\n\n"))
	if err := s.ai.GenerateObject(ctx, ai.TaskWeeklySummary, system, prompt, &payload); err != nil {
		return nil, fmt.Errorf("weekly summary generation: %w", err)
	}
	if err := payload.validate(); err != nil {
		return nil, fmt.Errorf("weekly summary generation: %w", err)
	}

	entries := payload.DiaryEntries
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].Time < entries[j].Time
	})

	summary := models.WeeklySummaryModel{
		WeekStart:         weekStart,
		WeekEnd:           weekEnd,
		DiaryEntries:      entries,
		TotalRecordings:   len(notes),
		MotivationalQuote: payload.MotivationalQuote,
		QuoteContext:      payload.QuoteContext,
	}
	if err := s.db.WithContext(ctx).Create(&summary).Error; err != nil {
		return nil, fmt.Errorf("save weekly summary: %w", err)
	}
	return &summary, nil
}

// GetDaily returns the newest summary for a date plus the day's notes.
// (nil, notes, nil) means no summary exists yet.
func (s *Service) GetDaily(ctx context.Context, date string) (*models.DailySummaryModel, []models.VoiceNoteModel, error) {
	var summary models.DailySummaryModel
	err := s.db.WithContext(ctx).
		Where("summary_date = ?", date).
		Order("created_at DESC").
		First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if summary.SelectedQuestions == nil {
		summary.SelectedQuestions = models.StringArray{}
	}
	if summary.NextDaySuggestions == nil {
		summary.NextDaySuggestions = models.StringArray{}
	}

	start, end, err := dayWindow(date)
	if err != nil {
		return nil, nil, err
	}
	notes, err := s.notesInWindow(ctx, start, end)
	if err != nil {
		return nil, nil, err
	}
	return &summary, notes, nil
}

// GetWeekly returns the newest summary for a week plus the week's notes.
func (s *Service) GetWeekly(ctx context.Context, weekStart string) (*models.WeeklySummaryModel, []models.VoiceNoteModel, error) {
	weekEnd, err := WeekEnd(weekStart)
	if err != nil {
		return nil, nil, err
	}

	var summary models.WeeklySummaryModel
	err = s.db.WithContext(ctx).
		Where("week_start = ? AND week_end = ?", weekStart, weekEnd).
		Order("created_at DESC").
		First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if summary.DiaryEntries == nil {
		summary.DiaryEntries = []models.DiaryEntry{}
	}

	start, _, err := dayWindow(weekStart)
	if err != nil {
		return nil, nil, err
	}
	notes, err := s.notesInWindow(ctx, start, start.AddDate(0, 0, 7))
	if err != nil {
		return nil, nil, err
	}
	return &summary, notes, nil
}

// ListAll returns the combined daily+weekly feed, newest period first, plus
// per-type totals.
func (s *Service) ListAll(ctx context.Context, q pagination.Query) ([]FeedItem, int64, int64, error) {
	var dailies []models.DailySummaryModel
	if err := s.db.WithContext(ctx).
		Order("summary_date DESC").
		Limit(q.Limit).Offset(q.Offset).
		Find(&dailies).Error; err != nil {
		return nil, 0, 0, err
	}
	var weeklies []models.WeeklySummaryModel
	if err := s.db.WithContext(ctx).
		Order("week_start DESC").
		Limit(q.Limit).Offset(q.Offset).
		Find(&weeklies).Error; err != nil {
		return nil, 0, 0, err
	}

	items := make([]FeedItem, 0, len(dailies)+len(weeklies))
	for i := range dailies {
		d := dailies[i]
		if d.SelectedQuestions == nil {
			d.SelectedQuestions = models.StringArray{}
		}
		if d.NextDaySuggestions == nil {
			d.NextDaySuggestions = models.StringArray{}
		}
		items = append(items, FeedItem{Type: "daily", SortDate: d.SummaryDate, Summary: d})
	}
	for i := range weeklies {
		w := weeklies[i]
		if w.DiaryEntries == nil {
			w.DiaryEntries = []models.DiaryEntry{}
		}
		items = append(items, FeedItem{Type: "weekly", SortDate: w.WeekStart, Summary: w})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortDate > items[j].SortDate
	})

	var totalDaily, totalWeekly int64
	if err := s.db.WithContext(ctx).Model(&models.DailySummaryModel{}).Count(&totalDaily).Error; err != nil {
		return nil, 0, 0, err
	}
	if err := s.db.WithContext(ctx).Model(&models.WeeklySummaryModel{}).Count(&totalWeekly).Error; err != nil {
		return nil, 0, 0, err
	}
	return items, totalDaily, totalWeekly, nil
}
