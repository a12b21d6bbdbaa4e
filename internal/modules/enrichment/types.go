package enrichment

import "fmt"

// transcriptionPayload is the structured result of phase 1. The raw
// speech-to-text output is produced separately; the model only corrects it
// and extracts topic tags.
type transcriptionPayload struct {
	CorrectedText string   `json:"corrected_text"`
	Topics        []string `json:"topics"`
}

func (p *transcriptionPayload) validate() error {
	if p.CorrectedText == "" {
		return fmt.Errorf("corrected_text is empty")
	}
	if len(p.Topics) == 0 {
		return fmt.Errorf("topics is empty")
	}
	if len(p.Topics) > 5 {
		p.Topics = p.Topics[:5]
	}
	return nil
}

// analysisPayload is the structured result of phase 2.
type analysisPayload struct {
	Summary           string   `json:"summary"`
	FollowUpQuestions []string `json:"follow_up_questions"`
	ActionItems       []string `json:"action_items"`
	Insights          []string `json:"insights"`
}

func (p *analysisPayload) validate() error {
	if p.Summary == "" {
		return fmt.Errorf("summary is empty")
	}
	if len(p.FollowUpQuestions) == 0 {
		return fmt.Errorf("follow_up_questions is empty")
	}
	return nil
}

// moodPayload is the structured result of phase 3. Bounds mirror what the
// prompt demands; a response outside them is a schema violation and aborts
// the run.
type moodPayload struct {
	MoodScore       int      `json:"mood_score"`
	EmotionalTags   []string `json:"emotional_tags"`
	MainTopics      []string `json:"main_topics"`
	ImportanceLevel int      `json:"importance_level"`
}

func (p *moodPayload) validate() error {
	if p.MoodScore < 1 || p.MoodScore > 10 {
		return fmt.Errorf("mood_score %d out of range [1,10]", p.MoodScore)
	}
	if p.ImportanceLevel < 1 || p.ImportanceLevel > 5 {
		return fmt.Errorf("importance_level %d out of range [1,5]", p.ImportanceLevel)
	}
	if len(p.EmotionalTags) > 3 {
		return fmt.Errorf("emotional_tags has %d entries, max 3", len(p.EmotionalTags))
	}
	if len(p.MainTopics) > 5 {
		return fmt.Errorf("main_topics has %d entries, max 5", len(p.MainTopics))
	}
	return nil
}
