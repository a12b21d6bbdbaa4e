package voicenote

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ntkr/core/internal/pkg/response"
	"go.uber.org/zap"
)

// Enqueuer triggers background enrichment for a freshly uploaded note.
// Failures must never propagate to the upload response.
type Enqueuer interface {
	EnqueueEnrichment(ctx context.Context, noteID string) error
}

type Handler struct {
	svc *Service
	enq Enqueuer
	log *zap.Logger
}

func NewHandler(svc *Service, enq Enqueuer, log *zap.Logger) *Handler {
	return &Handler{svc: svc, enq: enq, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/voice-notes")
	g.POST("", h.upload)
	g.DELETE("", h.delete)
	g.GET("/status/:id", h.status)
	g.GET("/list", h.list)
}

const maxUploadBytes = 64 << 20

// POST /voice-notes
func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("message")
	if err != nil {
		response.BadRequest(c, "No audio file provided")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.BadRequest(c, "audio file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	timestamp := c.PostForm("timestamp")
	location := c.PostForm("location")

	note, err := h.svc.Create(c.Request.Context(), fileHeader.Filename, payload, contentType, timestamp, location)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	// Fire and forget; the upload response never waits on AI work.
	noteID := note.ID
	go func() {
		ctx := context.Background()
		if err := h.enq.EnqueueEnrichment(ctx, noteID); err != nil {
			h.log.Error("background enrichment trigger failed", zap.String("note_id", noteID), zap.Error(err))
		}
	}()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Voice note uploaded and processing started",
		"data": gin.H{
			"id":                note.ID,
			"filename":          note.Filename,
			"blob_url":          note.BlobURL,
			"processing_status": note.ProcessingStatus,
			"created_at":        note.CreatedAt,
		},
	})
}

type deleteNoteDTO struct {
	ID string `json:"id" binding:"required"`
}

// DELETE /voice-notes
func (h *Handler) delete(c *gin.Context) {
	var dto deleteNoteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Note ID is required")
		return
	}

	note, err := h.svc.Delete(c.Request.Context(), dto.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if note == nil {
		response.NotFoundMsg(c, "Voice note not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Voice note deleted successfully",
		"deleted_id":       note.ID,
		"deleted_filename": note.Filename,
	})
}

// GET /voice-notes/status/:id
func (h *Handler) status(c *gin.Context) {
	note, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if note == nil {
		response.NotFoundMsg(c, "Note not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":                  note.ID,
			"processing_status":   note.ProcessingStatus,
			"transcription":       note.Transcription,
			"summary":             note.Summary,
			"topics":              note.Topics,
			"follow_up_questions": note.FollowUpQuestions,
			"action_items":        note.ActionItems,
			"insights":            note.Insights,
		},
	})
}

// GET /voice-notes/list
func (h *Handler) list(c *gin.Context) {
	notes, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, notes)
}
