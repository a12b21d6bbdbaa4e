package enrichment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ntkr/core/internal/pkg/pagination"
	"github.com/ntkr/core/internal/pkg/response"
	"github.com/ntkr/core/internal/pkg/taskqueue"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/voice-notes/process", h.process)
	rg.GET("/voice-notes/tasks", h.listTasks)
}

type processDTO struct {
	NoteID string `json:"noteId" binding:"required"`
}

// POST /voice-notes/process
// Internal trigger: runs the pipeline synchronously for one note. The normal
// path goes through the task queue; this endpoint exists for manual resubmits.
func (h *Handler) process(c *gin.Context) {
	var dto processDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Note ID is required")
		return
	}

	if err := h.svc.Run(c.Request.Context(), dto.NoteID); err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			response.NotFoundMsg(c, "Note not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "AI processing completed",
		"noteId":  dto.NoteID,
	})
}

// GET /voice-notes/tasks?status=&limit=
// Inspection endpoint over the queued pipeline runs.
func (h *Handler) listTasks(c *gin.Context) {
	q := pagination.FromContext(c)

	var status *taskqueue.TaskStatus
	if raw := c.Query("status"); raw != "" {
		st := taskqueue.TaskStatus(raw)
		switch st {
		case taskqueue.TaskPending, taskqueue.TaskRunning, taskqueue.TaskCompleted, taskqueue.TaskFailed:
			status = &st
		default:
			response.BadRequest(c, "Unknown task status")
			return
		}
	}

	tasks, total, err := h.svc.ListTasks(c.Request.Context(), q.Limit, status)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, tasks, q.Meta(total))
}
