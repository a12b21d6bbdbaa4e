package summaries

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ntkr/core/internal/models"
	"github.com/ntkr/core/internal/pkg/pagination"
	"github.com/ntkr/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/summaries")
	g.POST("/daily/generate", h.generateDaily)
	g.GET("/daily/:date", h.getDaily)
	g.POST("/weekly/generate", h.generateWeekly)
	g.GET("/weekly/:week", h.getWeekly)
	g.GET("/all", h.listAll)
}

type generateDailyDTO struct {
	Date string `json:"date" binding:"required"`
}

type generateWeeklyDTO struct {
	WeekStartDate string `json:"weekStartDate" binding:"required"`
}

// POST /summaries/daily/generate
func (h *Handler) generateDaily(c *gin.Context) {
	var dto generateDailyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Date is required")
		return
	}
	if !ValidDate(dto.Date) {
		response.BadRequest(c, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	summary, err := h.svc.GenerateDaily(c.Request.Context(), dto.Date)
	if err != nil {
		if errors.Is(err, ErrNoNotesInRange) {
			response.NotFoundWith(c, "No voice notes found for this date", gin.H{"date": dto.Date})
			return
		}
		response.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"summary_id":   summary.ID,
		"date":         dto.Date,
		"summary":      summary,
		"generated_at": time.Now(),
	})
}

// GET /summaries/daily/:date
func (h *Handler) getDaily(c *gin.Context) {
	date := c.Param("date")
	if !ValidDate(date) {
		response.BadRequest(c, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	summary, notes, err := h.svc.GetDaily(c.Request.Context(), date)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if summary == nil {
		response.NotFoundWith(c, "Daily summary not found for this date", gin.H{
			"date":       date,
			"suggestion": fmt.Sprintf(`Generate summary using POST /api/summaries/daily/generate with body: {"date": %q}`, date),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"date":    date,
		"summary": summary,
		"related_notes": gin.H{
			"count": len(notes),
			"notes": relatedNoteStats(notes),
		},
	})
}

// POST /summaries/weekly/generate
func (h *Handler) generateWeekly(c *gin.Context) {
	var dto generateWeeklyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Week start date is required")
		return
	}
	if !ValidDate(dto.WeekStartDate) {
		response.BadRequest(c, "Invalid date format. Use YYYY-MM-DD for week start (Monday)")
		return
	}

	summary, err := h.svc.GenerateWeekly(c.Request.Context(), dto.WeekStartDate)
	if err != nil {
		if errors.Is(err, ErrNoNotesInRange) {
			weekEnd, _ := WeekEnd(dto.WeekStartDate)
			response.NotFoundWith(c, "No voice notes found for this week", gin.H{
				"week": fmt.Sprintf("%s to %s", dto.WeekStartDate, weekEnd),
			})
			return
		}
		response.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"summary_id":   summary.ID,
		"week":         fmt.Sprintf("%s to %s", summary.WeekStart, summary.WeekEnd),
		"summary":      summary,
		"generated_at": time.Now(),
	})
}

// GET /summaries/weekly/:week
func (h *Handler) getWeekly(c *gin.Context) {
	week := c.Param("week")
	if !ValidDate(week) {
		response.BadRequest(c, "Invalid week format. Use YYYY-MM-DD for week start date (Monday)")
		return
	}
	weekEnd, err := WeekEnd(week)
	if err != nil {
		response.BadRequest(c, "Invalid week format. Use YYYY-MM-DD for week start date (Monday)")
		return
	}

	summary, notes, err := h.svc.GetWeekly(c.Request.Context(), week)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if summary == nil {
		response.NotFoundWith(c, "Weekly summary not found for this week", gin.H{
			"week_start": week,
			"week_end":   weekEnd,
			"suggestion": fmt.Sprintf(`Generate summary using POST /api/summaries/weekly/generate with body: {"weekStartDate": %q}`, week),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"week_start":   summary.WeekStart,
		"week_end":     summary.WeekEnd,
		"summary":      summary,
		"weekly_stats": ComputeWeeklyStats(notes),
	})
}

// GET /summaries/all?limit=&offset=
func (h *Handler) listAll(c *gin.Context) {
	q := pagination.FromContext(c)

	items, totalDaily, totalWeekly, err := h.svc.ListAll(c.Request.Context(), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	meta := q.Meta(totalDaily + totalWeekly)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"summaries": items,
		"pagination": gin.H{
			"limit":          meta.Limit,
			"offset":         meta.Offset,
			"total_daily":    totalDaily,
			"total_weekly":   totalWeekly,
			"total_combined": meta.Total,
			"has_more":       meta.HasMore,
		},
	})
}

// relatedNoteStats trims notes to the stat fields the daily read endpoint
// exposes alongside the summary.
func relatedNoteStats(notes []models.VoiceNoteModel) []gin.H {
	out := make([]gin.H, 0, len(notes))
	for _, note := range notes {
		out = append(out, gin.H{
			"id":               note.ID,
			"mood_score":       note.MoodScore,
			"emotional_tags":   note.EmotionalTags,
			"main_topics":      note.MainTopics,
			"importance_level": note.ImportanceLevel,
			"created_at":       note.CreatedAt,
		})
	}
	return out
}
