package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ntkr/core/internal/models"
	"github.com/ntkr/core/internal/modules/ai"
	"github.com/ntkr/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const TaskTypeEnrichment = "enrich:voice-note"

var (
	ErrNoteNotFound = errors.New("voice note not found")
	// ErrStateConflict means another writer changed the note's status while
	// this run held it; the losing run aborts instead of clobbering.
	ErrStateConflict = errors.New("note status changed concurrently")
)

// DailyRegenerator regenerates the daily summary for a date after a note
// finishes enrichment. Its failures are logged, never propagated.
type DailyRegenerator interface {
	RegenerateDaily(ctx context.Context, date string) error
}

type enrichmentTaskPayload struct {
	NoteID string `json:"note_id"`
}

// Service drives the 3-phase enrichment state machine:
// processing → transcribing → analyzing → completed, or error from any phase.
type Service struct {
	db    *gorm.DB
	ai    ai.Client
	tasks *taskqueue.Service
	daily DailyRegenerator
	log   *zap.Logger
}

func NewService(db *gorm.DB, aiClient ai.Client, tasks *taskqueue.Service, log *zap.Logger) *Service {
	return &Service{db: db, ai: aiClient, tasks: tasks, log: log}
}

// SetDailyRegenerator wires the summary service in after construction; the
// summary service itself depends on nothing here.
func (s *Service) SetDailyRegenerator(d DailyRegenerator) { s.daily = d }

// ListTasks returns recent pipeline tasks, newest first, optionally filtered
// by status. With no task queue configured there is nothing to report.
func (s *Service) ListTasks(ctx context.Context, limit int, status *taskqueue.TaskStatus) ([]*taskqueue.Task, int64, error) {
	if s.tasks == nil {
		return []*taskqueue.Task{}, 0, nil
	}
	return s.tasks.List(ctx, limit, TaskTypeEnrichment, status)
}

// EnqueueEnrichment queues a pipeline run for the note. The dedup key keeps a
// note from being enqueued twice while a run for it is still pending or
// running. With no task queue configured it falls back to a direct
// detached run.
func (s *Service) EnqueueEnrichment(ctx context.Context, noteID string) error {
	if noteID == "" {
		return errors.New("note id is required")
	}
	if s.tasks == nil {
		go s.runDetached(noteID)
		return nil
	}

	payload := enrichmentTaskPayload{NoteID: noteID}
	task, err := s.tasks.Enqueue(ctx, TaskTypeEnrichment, payload, "enrich:"+noteID)
	if err != nil {
		return err
	}
	if task.Status == taskqueue.TaskPending {
		go s.executeTask(task.ID, noteID)
	}
	return nil
}

func (s *Service) runDetached(noteID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := s.Run(ctx, noteID); err != nil {
		s.log.Error("enrichment run failed", zap.String("note_id", noteID), zap.Error(err))
	}
}

func (s *Service) executeTask(taskID, noteID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := s.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, ""); err != nil {
		s.log.Warn("task status update failed", zap.String("task_id", taskID), zap.Error(err))
	}
	if err := s.Run(ctx, noteID); err != nil {
		s.log.Error("enrichment run failed", zap.String("note_id", noteID), zap.Error(err))
		s.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, err.Error())
		return
	}
	s.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, map[string]string{"note_id": noteID}, "")
}

// Run executes the whole pipeline for one note. Any phase failure persists
// error status and aborts; fields written by earlier phases are kept.
func (s *Service) Run(ctx context.Context, noteID string) error {
	var note models.VoiceNoteModel
	if err := s.db.WithContext(ctx).First(&note, "id = ?", noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	// Entry is unconditional so an errored note can be resubmitted manually;
	// later transitions are status-guarded.
	if err := s.db.WithContext(ctx).Model(&models.VoiceNoteModel{}).
		Where("id = ?", noteID).
		Update("processing_status", models.StatusTranscribing).Error; err != nil {
		return err
	}

	if err := s.runPhases(ctx, &note); err != nil {
		// A lost status-guard race means another run owns the note now;
		// its terminal status must not be overwritten.
		if !errors.Is(err, ErrStateConflict) {
			s.markError(noteID)
		}
		return err
	}

	s.log.Info("enrichment completed", zap.String("note_id", noteID))
	s.regenerateDaily(note.CreatedAt.Format("2006-01-02"))
	return nil
}

func (s *Service) runPhases(ctx context.Context, note *models.VoiceNoteModel) error {
	// Phase 1: speech-to-text, then correction + topic tagging.
	s.log.Info("phase 1: transcription", zap.String("note_id", note.ID))
	rawTranscript, err := s.ai.TranscribeAudio(ctx, note.BlobURL, note.Filename)
	if err != nil {
		return fmt.Errorf("transcription: %w", err)
	}

	var trans transcriptionPayload
	system, prompt := buildTranscriptionPrompt(rawTranscript, note.RecordedDate, note.Location)
	if err := s.ai.GenerateObject(ctx, ai.TaskTranscription, system, prompt, &trans); err != nil {
		return fmt.Errorf("transcription cleanup: %w", err)
	}
	if err := trans.validate(); err != nil {
		return fmt.Errorf("transcription cleanup: %w", err)
	}

	res := s.db.WithContext(ctx).Model(&models.VoiceNoteModel{}).
		Where("id = ? AND processing_status = ?", note.ID, models.StatusTranscribing).
		Updates(map[string]interface{}{
			"transcription":     rawTranscript,
			"corrected_text":    trans.CorrectedText,
			"topics":            models.StringArray(trans.Topics),
			"processing_status": models.StatusAnalyzing,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStateConflict
	}

	// Phase 2: content analysis. Status stays analyzing; the transition to
	// completed waits for phase 3.
	s.log.Info("phase 2: analysis", zap.String("note_id", note.ID))
	var analysis analysisPayload
	system, prompt = buildAnalysisPrompt(trans.CorrectedText, note.RecordedDate, note.Location)
	if err := s.ai.GenerateObject(ctx, ai.TaskAnalysis, system, prompt, &analysis); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if err := analysis.validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	// Phase 3: mood scoring.
	s.log.Info("phase 3: mood analysis", zap.String("note_id", note.ID))
	var mood moodPayload
	system, prompt = buildMoodPrompt(trans.CorrectedText)
	if err := s.ai.GenerateObject(ctx, ai.TaskMood, system, prompt, &mood); err != nil {
		return fmt.Errorf("mood analysis: %w", err)
	}
	if err := mood.validate(); err != nil {
		return fmt.Errorf("mood analysis: %w", err)
	}

	// Phase 2 and 3 fields land in one final guarded update.
	res = s.db.WithContext(ctx).Model(&models.VoiceNoteModel{}).
		Where("id = ? AND processing_status = ?", note.ID, models.StatusAnalyzing).
		Updates(map[string]interface{}{
			"summary":             analysis.Summary,
			"follow_up_questions": models.StringArray(analysis.FollowUpQuestions),
			"action_items":        models.StringArray(analysis.ActionItems),
			"insights":            models.StringArray(analysis.Insights),
			"mood_score":          mood.MoodScore,
			"emotional_tags":      models.StringArray(mood.EmotionalTags),
			"main_topics":         models.StringArray(mood.MainTopics),
			"importance_level":    mood.ImportanceLevel,
			"processing_status":   models.StatusCompleted,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStateConflict
	}
	return nil
}

func (s *Service) markError(noteID string) {
	if err := s.db.Model(&models.VoiceNoteModel{}).
		Where("id = ?", noteID).
		Update("processing_status", models.StatusError).Error; err != nil {
		s.log.Error("failed to persist error status", zap.String("note_id", noteID), zap.Error(err))
	}
}

func (s *Service) regenerateDaily(date string) {
	if s.daily == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := s.daily.RegenerateDaily(ctx, date); err != nil {
		s.log.Warn("daily summary auto-regeneration failed", zap.String("date", date), zap.Error(err))
		return
	}
	s.log.Info("daily summary auto-regenerated", zap.String("date", date))
}
