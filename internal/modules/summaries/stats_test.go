package summaries

import (
	"fmt"
	"testing"

	"github.com/ntkr/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(date string, mood int, topics, emotions []string) models.VoiceNoteModel {
	return models.VoiceNoteModel{
		RecordedDate:  date,
		MoodScore:     mood,
		MainTopics:    models.StringArray(topics),
		EmotionalTags: models.StringArray(emotions),
	}
}

func TestComputeWeeklyStatsEmpty(t *testing.T) {
	stats := ComputeWeeklyStats(nil)
	assert.Equal(t, 0, stats.TotalNotes)
	assert.Equal(t, 0.0, stats.AvgMood)
	assert.NotNil(t, stats.MoodByDay)
	assert.NotNil(t, stats.TopTopics)
	assert.NotNil(t, stats.TopEmotions)
}

func TestComputeWeeklyStats(t *testing.T) {
	// 2026-03-02 is a Monday
	notes := []models.VoiceNoteModel{
		note("2026-03-02", 8, []string{"work"}, []string{"focused"}),
		note("2026-03-02", 7, []string{"work", "health"}, []string{"calm"}),
		note("2026-03-03", 4, []string{"family"}, []string{"stressed"}),
		// unscored note still counts toward the total
		note("2026-03-04", 0, []string{"work"}, nil),
	}

	stats := ComputeWeeklyStats(notes)

	assert.Equal(t, 4, stats.TotalNotes)
	assert.Equal(t, 6.3, stats.AvgMood, "19/3 rounded to one decimal")
	assert.Equal(t, 7.5, stats.MoodByDay["Mon"])
	assert.Equal(t, 4.0, stats.MoodByDay["Tue"])
	_, hasWed := stats.MoodByDay["Wed"]
	assert.False(t, hasWed, "unscored notes contribute no mood figure")

	require.NotEmpty(t, stats.TopTopics)
	assert.Equal(t, LabelCount{Label: "work", Count: 3}, stats.TopTopics[0])
}

func TestComputeWeeklyStatsTop5(t *testing.T) {
	var notes []models.VoiceNoteModel
	for i := 0; i < 8; i++ {
		topic := fmt.Sprintf("topic-%d", i)
		n := note("2026-03-02", 5, []string{topic}, nil)
		notes = append(notes, n)
	}
	notes = append(notes, note("2026-03-02", 5, []string{"topic-3"}, nil))

	stats := ComputeWeeklyStats(notes)
	require.Len(t, stats.TopTopics, 5)
	assert.Equal(t, "topic-3", stats.TopTopics[0].Label)
	assert.Equal(t, 2, stats.TopTopics[0].Count)
	// count ties break alphabetically for a stable response
	assert.Equal(t, "topic-0", stats.TopTopics[1].Label)
}
