package voicenote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ntkr/core/internal/models"
	"github.com/ntkr/core/internal/pkg/blob"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Placeholder values written at upload time so the UI has something to render
// while enrichment runs in the background.
const (
	placeholderTranscription = "Processing..."
	placeholderSummary       = "Analyzing content..."
)

var (
	placeholderTopics      = models.StringArray{"Processing..."}
	placeholderQuestions   = models.StringArray{"Questions will be available after analysis..."}
	placeholderActionItems = models.StringArray{"Action items will be available after analysis..."}
	placeholderInsights    = models.StringArray{"Insights will be available after analysis..."}
)

type Service struct {
	db    *gorm.DB
	store blob.Store
	log   *zap.Logger
}

func NewService(db *gorm.DB, store blob.Store, log *zap.Logger) *Service {
	return &Service{db: db, store: store, log: log}
}

// Create uploads the audio payload and inserts the placeholder row. The row
// must exist before the caller responds so a status poll right after the
// upload response never misses.
func (s *Service) Create(ctx context.Context, filename string, payload []byte, contentType, timestamp, location string) (*models.VoiceNoteModel, error) {
	if len(payload) == 0 {
		return nil, errors.New("empty audio payload")
	}

	now := time.Now()
	key := blob.ObjectKey(filename, now)
	blobURL, err := s.store.Upload(ctx, key, payload, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	recordedAt, recordedDate, recordedTime := splitTimestamp(timestamp, now)

	note := models.VoiceNoteModel{
		Filename:          filename,
		BlobURL:           blobURL,
		Transcription:     placeholderTranscription,
		CorrectedText:     placeholderTranscription,
		Summary:           placeholderSummary,
		Topics:            placeholderTopics,
		FollowUpQuestions: placeholderQuestions,
		ActionItems:       placeholderActionItems,
		Insights:          placeholderInsights,
		Location:          location,
		RecordedAt:        recordedAt,
		RecordedDate:      recordedDate,
		RecordedTime:      recordedTime,
		EmotionalTags:     models.StringArray{},
		MainTopics:        models.StringArray{},
		ProcessingStatus:  models.StatusProcessing,
	}
	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		return nil, fmt.Errorf("insert voice note: %w", err)
	}

	s.log.Info("voice note created",
		zap.String("id", note.ID),
		zap.String("filename", note.Filename),
		zap.Int("size_bytes", len(payload)))
	return &note, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.VoiceNoteModel, error) {
	var note models.VoiceNoteModel
	if err := s.db.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	note.Normalize()
	return &note, nil
}

func (s *Service) List(ctx context.Context) ([]models.VoiceNoteModel, error) {
	var notes []models.VoiceNoteModel
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	for i := range notes {
		notes[i].Normalize()
	}
	return notes, nil
}

// Delete removes the row and fires a best-effort blob delete in the
// background. Blob orphaning on delete failure is accepted; it is logged and
// never blocks the response.
func (s *Service) Delete(ctx context.Context, id string) (*models.VoiceNoteModel, error) {
	note, err := s.GetByID(ctx, id)
	if err != nil || note == nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(&models.VoiceNoteModel{}, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("delete voice note: %w", err)
	}

	blobURL := note.BlobURL
	go func() {
		key := s.store.KeyFromURL(blobURL)
		if key == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn("blob delete failed", zap.String("note_id", id), zap.Error(err))
		}
	}()

	return note, nil
}

// splitTimestamp derives recorded_at plus the date/time columns used for
// day-window queries. A missing or malformed client timestamp falls back to
// the server clock.
func splitTimestamp(timestamp string, now time.Time) (recordedAt, recordedDate, recordedTime string) {
	ts := strings.TrimSpace(timestamp)
	if ts == "" {
		ts = now.Format(time.RFC3339)
	}

	recordedAt = ts
	if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
		recordedDate = parsed.Format("2006-01-02")
		recordedTime = parsed.Format("15:04:05")
		return recordedAt, recordedDate, recordedTime
	}

	// Best effort for non-RFC3339 inputs shaped like "<date>T<time>".
	if idx := strings.Index(ts, "T"); idx > 0 {
		recordedDate = ts[:idx]
		rest := ts[idx+1:]
		if dot := strings.IndexAny(rest, ".Z+"); dot > 0 {
			rest = rest[:dot]
		}
		recordedTime = rest
		return recordedAt, recordedDate, recordedTime
	}

	recordedDate = now.Format("2006-01-02")
	recordedTime = now.Format("15:04:05")
	return recordedAt, recordedDate, recordedTime
}
