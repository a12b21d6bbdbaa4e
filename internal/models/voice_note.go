package models

// ProcessingStatus tracks a note through the enrichment pipeline.
// Transitions are monotonic: processing → transcribing → analyzing → completed,
// or → error from any phase.
type ProcessingStatus string

const (
	StatusProcessing   ProcessingStatus = "processing"
	StatusTranscribing ProcessingStatus = "transcribing"
	StatusAnalyzing    ProcessingStatus = "analyzing"
	StatusCompleted    ProcessingStatus = "completed"
	StatusError        ProcessingStatus = "error"
)

// VoiceNoteModel is one recorded audio clip and its derived fields.
// Mood score, emotional tags, main topics and importance level are only
// populated once the status reaches completed.
type VoiceNoteModel struct {
	Base
	Filename          string           `json:"filename"            gorm:"not null"`
	BlobURL           string           `json:"blob_url"            gorm:"type:text;not null"`
	Transcription     string           `json:"transcription"       gorm:"type:longtext"`
	CorrectedText     string           `json:"corrected_text"      gorm:"type:longtext"`
	Summary           string           `json:"summary"             gorm:"type:text"`
	Topics            StringArray      `json:"topics"              gorm:"type:text"`
	FollowUpQuestions StringArray      `json:"follow_up_questions" gorm:"type:text"`
	ActionItems       StringArray      `json:"action_items"        gorm:"type:text"`
	Insights          StringArray      `json:"insights"            gorm:"type:text"`
	Location          string           `json:"location"`
	RecordedAt        string           `json:"recorded_at"`
	RecordedDate      string           `json:"recorded_date"       gorm:"index"`
	RecordedTime      string           `json:"recorded_time"`
	MoodScore         int              `json:"mood_score"`
	EmotionalTags     StringArray      `json:"emotional_tags"      gorm:"type:text"`
	MainTopics        StringArray      `json:"main_topics"         gorm:"type:text"`
	ImportanceLevel   int              `json:"importance_level"`
	ProcessingStatus  ProcessingStatus `json:"processing_status"   gorm:"default:'processing';index"`
}

func (VoiceNoteModel) TableName() string { return "voice_notes" }

// Normalize guarantees every list field is a non-nil slice before the row is
// serialized to JSON.
func (n *VoiceNoteModel) Normalize() {
	if n.Topics == nil {
		n.Topics = StringArray{}
	}
	if n.FollowUpQuestions == nil {
		n.FollowUpQuestions = StringArray{}
	}
	if n.ActionItems == nil {
		n.ActionItems = StringArray{}
	}
	if n.Insights == nil {
		n.Insights = StringArray{}
	}
	if n.EmotionalTags == nil {
		n.EmotionalTags = StringArray{}
	}
	if n.MainTopics == nil {
		n.MainTopics = StringArray{}
	}
}
