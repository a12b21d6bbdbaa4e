package summaries

import (
	"math"
	"sort"
	"time"

	"github.com/ntkr/core/internal/models"
)

// WeeklyStats aggregates the week's completed notes for the weekly read
// endpoint.
type WeeklyStats struct {
	TotalNotes  int                `json:"total_notes"`
	AvgMood     float64            `json:"avg_mood"`
	MoodByDay   map[string]float64 `json:"mood_by_day"`
	TopTopics   []LabelCount       `json:"top_topics"`
	TopEmotions []LabelCount       `json:"top_emotions"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// ComputeWeeklyStats derives avg mood, per-weekday mood, and the top-5 topics
// and emotions. Notes without a mood score yet are skipped for the mood
// figures but still counted in TotalNotes.
func ComputeWeeklyStats(notes []models.VoiceNoteModel) WeeklyStats {
	stats := WeeklyStats{
		TotalNotes:  len(notes),
		MoodByDay:   map[string]float64{},
		TopTopics:   []LabelCount{},
		TopEmotions: []LabelCount{},
	}

	var moodSum, moodCount int
	moodByDay := map[string][]int{}
	topicCounts := map[string]int{}
	emotionCounts := map[string]int{}

	for _, note := range notes {
		if note.MoodScore > 0 {
			moodSum += note.MoodScore
			moodCount++
			if note.RecordedDate != "" {
				if day, err := time.ParseInLocation("2006-01-02", note.RecordedDate, time.Local); err == nil {
					key := day.Format("Mon")
					moodByDay[key] = append(moodByDay[key], note.MoodScore)
				}
			}
		}
		for _, topic := range note.MainTopics {
			topicCounts[topic]++
		}
		for _, emotion := range note.EmotionalTags {
			emotionCounts[emotion]++
		}
	}

	if moodCount > 0 {
		stats.AvgMood = round1(float64(moodSum) / float64(moodCount))
	}
	for day, moods := range moodByDay {
		sum := 0
		for _, m := range moods {
			sum += m
		}
		stats.MoodByDay[day] = round1(float64(sum) / float64(len(moods)))
	}

	stats.TopTopics = topN(topicCounts, 5)
	stats.TopEmotions = topN(emotionCounts, 5)
	return stats
}

func topN(counts map[string]int, n int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
