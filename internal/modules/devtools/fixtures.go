package devtools

import "github.com/ntkr/core/internal/models"

// mockRecording is one synthetic completed note template. Fixture data only;
// the inference service is never called for mock rows.
type mockRecording struct {
	Transcription   string
	CorrectedText   string
	Summary         string
	Topics          []string
	FollowUps       []string
	ActionItems     []string
	Insights        []string
	MoodScore       int
	EmotionalTags   []string
	MainTopics      []string
	ImportanceLevel int
	HourOfDay       int
}

var mockRecordings = []mockRecording{
	{
		Transcription:   "Good morning, recording this right after waking up. Slept well and I am feeling motivated. Yesterday I spent two hours reviewing the payment module tests for the fintech client and the results look promising, transaction time dropped by forty percent. Today I have a meeting with Mark before next week's presentation, and I still need to review Anna's code for the bank API integration.",
		CorrectedText:   "Good morning, recording this right after waking up. I slept well and I'm feeling motivated. Yesterday I spent two hours reviewing the payment module tests for the fintech client and the results look promising — transaction time dropped by 40%. Today I have a meeting with Mark before next week's presentation, and I still need to review Anna's code for the bank API integration.",
		Summary:         "The user started the day motivated, encouraged by strong payment-module test results, and planned a meeting with Mark plus a code review of Anna's bank API integration.",
		Topics:          []string{"fintech", "testing", "presentation", "code review"},
		FollowUps:       []string{"Which AI features matter most to the fintech client?", "How will you prepare for the presentation with Mark?", "What blockers remain in Anna's API integration?"},
		ActionItems:     []string{"Finish the client presentation", "Review Anna's bank API code", "Prepare for the meeting with Mark"},
		Insights:        []string{"High motivation and energy", "Strategic thinking about the project", "Good planning habits"},
		MoodScore:       8,
		EmotionalTags:   []string{"motivated", "energetic", "focused"},
		MainTopics:      []string{"fintech", "project", "team", "career"},
		ImportanceLevel: 5,
		HourOfDay:       8,
	},
	{
		Transcription:   "Just got back from the sprint planning meeting and I want to capture a few observations. It ran about ninety minutes. Tomek kept asking about implementation details that should have been clear after the product owner sessions, and Anna seemed stressed about the API integration deadline. Kasia had good database optimization ideas that the team did not fully pick up on. I want to talk to Anna one on one and give Kasia more room in the next meeting.",
		CorrectedText:   "Just got back from the sprint planning meeting and I want to capture a few observations. It ran about 90 minutes. Tomek kept asking about implementation details that should have been clear after the product owner sessions, and Anna seemed stressed about the API integration deadline. Kasia had good database optimization ideas that the team didn't fully pick up on. I want to talk to Anna one-on-one and give Kasia more room in the next meeting.",
		Summary:         "The user reviewed a sprint planning meeting, noticing unclear requirements, a stressed teammate, and undervalued optimization ideas, and resolved to improve team communication.",
		Topics:          []string{"meeting", "team", "sprint", "communication"},
		FollowUps:       []string{"How can you clarify requirements before planning meetings?", "What support can you offer Anna on the API work?", "How will you make space for Kasia's ideas?"},
		ActionItems:     []string{"Talk to Anna one-on-one about the API integration", "Restructure the planning meeting format", "Follow up on Kasia's database ideas"},
		Insights:        []string{"Awareness of team dynamics", "Empathetic leadership instincts", "Desire to improve processes"},
		MoodScore:       6,
		EmotionalTags:   []string{"thoughtful", "responsible", "analytical"},
		MainTopics:      []string{"team", "communication", "leadership"},
		ImportanceLevel: 4,
		HourOfDay:       14,
	},
	{
		Transcription:   "Recording this in the afternoon because today got stressful. Around eleven the e-commerce client called asking to pull the payment module delivery in by a full week, so everything has to be done by Wednesday. Then Anna found out the bank changed their API response format without notice, which means rewriting the parsing logic, at least two working days. And Tomek reported a bug in the security module affecting all test transactions. I feel overwhelmed but I am trying to reprioritize.",
		CorrectedText:   "Recording this in the afternoon because today got stressful. Around 11:00 the e-commerce client called asking to pull the payment module delivery in by a full week, so everything has to be done by Wednesday. Then Anna found out the bank changed their API response format without notice, which means rewriting the parsing logic — at least two working days. And Tomek reported a bug in the security module affecting all test transactions. I feel overwhelmed, but I'm trying to reprioritize.",
		Summary:         "The user faced a compressed client deadline, a breaking third-party API change, and a security bug on the same afternoon, and is working through crisis reprioritization.",
		Topics:          []string{"stress", "deadline", "API", "security"},
		FollowUps:       []string{"Which task is truly the most critical right now?", "How can you communicate the risk to the client?", "What early-warning system would catch API changes sooner?"},
		ActionItems:     []string{"Reprioritize all tasks by criticality", "Call a crisis meeting with the team", "Prepare a fix plan for the security bug"},
		Insights:        []string{"Capable under pressure", "Sees the need for risk management", "Stays analytical in a crisis"},
		MoodScore:       4,
		EmotionalTags:   []string{"stressed", "overwhelmed", "analytical"},
		MainTopics:      []string{"stress", "crisis", "deadline", "team"},
		ImportanceLevel: 5,
		HourOfDay:       16,
	},
	{
		Transcription:   "It is evening and I just took a long walk in the park to clear my head. I was thinking about how my approach to work has changed over the last months. I used to stay in the office until ten believing hours equal success, but quality matters more than quantity. My mentor Pawel told me last week that a leader's main skill is creating an environment where others can grow, and that really stuck with me after today's meeting.",
		CorrectedText:   "It's evening and I just took a long walk in the park to clear my head. I was thinking about how my approach to work has changed over the last months. I used to stay in the office until 22:00 believing hours equal success, but quality matters more than quantity. My mentor Paweł told me last week that a leader's main skill is creating an environment where others can grow, and that really stuck with me after today's meeting.",
		Summary:         "During an evening walk the user reflected on moving from hours-driven work to quality-driven work and on his mentor's advice about growth-oriented leadership.",
		Topics:          []string{"reflection", "leadership", "work-life balance", "mentoring"},
		FollowUps:       []string{"How will you apply quality-over-quantity day to day?", "What will you change about how you run meetings?", "How often will you schedule reflection time?"},
		ActionItems:     []string{"Schedule regular evening walks", "Try a new meeting format next week", "Set up a follow-up conversation with Paweł"},
		Insights:        []string{"Growing self-awareness", "Values mentor feedback", "Evolving toward servant leadership"},
		MoodScore:       7,
		EmotionalTags:   []string{"reflective", "calm"},
		MainTopics:      []string{"growth", "leadership", "balance"},
		ImportanceLevel: 3,
		HourOfDay:       19,
	},
}

var mockLocations = []string{
	"Warsaw, Poland",
	"Kraków, Poland",
	"Home",
	"Office",
	"Łazienki Park",
	"",
}

func (m mockRecording) toNote() models.VoiceNoteModel {
	return models.VoiceNoteModel{
		Transcription:     m.Transcription,
		CorrectedText:     m.CorrectedText,
		Summary:           m.Summary,
		Topics:            models.StringArray(m.Topics),
		FollowUpQuestions: models.StringArray(m.FollowUps),
		ActionItems:       models.StringArray(m.ActionItems),
		Insights:          models.StringArray(m.Insights),
		MoodScore:         m.MoodScore,
		EmotionalTags:     models.StringArray(m.EmotionalTags),
		MainTopics:        models.StringArray(m.MainTopics),
		ImportanceLevel:   m.ImportanceLevel,
		ProcessingStatus:  models.StatusCompleted,
	}
}
