package devtools

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ntkr/core/internal/models"
	"github.com/ntkr/core/internal/modules/summaries"
	"github.com/ntkr/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler exposes test-fixture endpoints. The whole group is only mounted
// when dev tools are enabled in config; none of this belongs in a production
// deployment.
type Handler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewHandler(db *gorm.DB, log *zap.Logger) *Handler {
	return &Handler{db: db, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/dev-tools")
	g.POST("/mock-day", h.mockDay)
	g.POST("/mock-week", h.mockWeek)
	g.POST("/clear-test-data", h.clearTestData)
}

type mockDayDTO struct {
	Date string `json:"date" binding:"required"`
}

// POST /dev-tools/mock-day
func (h *Handler) mockDay(c *gin.Context) {
	var dto mockDayDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Date is required (YYYY-MM-DD format)")
		return
	}
	if !summaries.ValidDate(dto.Date) {
		response.BadRequest(c, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	ids, err := h.insertMockDay(dto.Date)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	h.log.Info("mock day generated", zap.String("date", dto.Date), zap.Int("recordings", len(ids)))
	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"date":                 dto.Date,
		"recordings_generated": len(ids),
		"recordings":           ids,
		"message":              fmt.Sprintf("Successfully generated %d mock voice notes for %s", len(ids), dto.Date),
	})
}

type mockWeekDTO struct {
	WeekStartDate string `json:"weekStartDate" binding:"required"`
}

// POST /dev-tools/mock-week
// Fills Monday through Friday of the week with mock days. No inference calls
// are made anywhere on this path.
func (h *Handler) mockWeek(c *gin.Context) {
	var dto mockWeekDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Week start date is required (YYYY-MM-DD format, should be Monday)")
		return
	}
	if !summaries.ValidDate(dto.WeekStartDate) {
		response.BadRequest(c, "Invalid date format. Use YYYY-MM-DD for week start (Monday)")
		return
	}

	start, err := time.ParseInLocation("2006-01-02", dto.WeekStartDate, time.Local)
	if err != nil {
		response.BadRequest(c, "Invalid date format. Use YYYY-MM-DD for week start (Monday)")
		return
	}

	type dayResult struct {
		Date                string `json:"date"`
		RecordingsGenerated int    `json:"recordings_generated"`
	}
	results := make([]dayResult, 0, 5)
	total := 0
	for dayOffset := 0; dayOffset < 5; dayOffset++ {
		date := start.AddDate(0, 0, dayOffset).Format("2006-01-02")
		ids, err := h.insertMockDay(date)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		results = append(results, dayResult{Date: date, RecordingsGenerated: len(ids)})
		total += len(ids)
	}

	h.log.Info("mock week generated", zap.String("week_start", dto.WeekStartDate), zap.Int("recordings", total))
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"week_start":       dto.WeekStartDate,
		"days_generated":   len(results),
		"total_recordings": total,
		"days":             results,
	})
}

func (h *Handler) insertMockDay(date string) ([]string, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, err
	}

	count := 3 + rand.Intn(3)
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		template := mockRecordings[rand.Intn(len(mockRecordings))]
		location := mockLocations[rand.Intn(len(mockLocations))]

		recordedAt := time.Date(day.Year(), day.Month(), day.Day(), template.HourOfDay, rand.Intn(60), 0, 0, time.Local)
		moodScore := template.MoodScore + rand.Intn(3) - 1
		if moodScore < 1 {
			moodScore = 1
		}
		if moodScore > 10 {
			moodScore = 10
		}

		note := template.toNote()
		note.Filename = fmt.Sprintf("mock-voice-note-%s-%d.wav", date, i+1)
		note.BlobURL = fmt.Sprintf("https://example.com/mock-audio-%s-%d.wav", date, i+1)
		note.Location = location
		note.RecordedAt = recordedAt.Format(time.RFC3339)
		note.RecordedDate = date
		note.RecordedTime = recordedAt.Format("15:04:05")
		note.MoodScore = moodScore
		note.CreatedAt = recordedAt

		if err := h.db.Create(&note).Error; err != nil {
			return nil, err
		}
		ids = append(ids, note.ID)
	}
	return ids, nil
}

type clearDTO struct {
	Confirm bool `json:"confirm"`
}

// POST /dev-tools/clear-test-data
func (h *Handler) clearTestData(c *gin.Context) {
	var dto clearDTO
	if err := c.ShouldBindJSON(&dto); err != nil || !dto.Confirm {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"ok":      0,
			"code":    http.StatusBadRequest,
			"message": "Confirmation required",
			"hint":    `Send {"confirm": true} in the request body`,
			"warning": "This will delete ALL voice notes, daily summaries, and weekly summaries!",
		})
		return
	}

	var notes, dailies, weeklies int64
	h.db.Model(&models.VoiceNoteModel{}).Count(&notes)
	h.db.Model(&models.DailySummaryModel{}).Count(&dailies)
	h.db.Model(&models.WeeklySummaryModel{}).Count(&weeklies)

	for _, model := range []interface{}{
		&models.WeeklySummaryModel{},
		&models.DailySummaryModel{},
		&models.VoiceNoteModel{},
	} {
		if err := h.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			response.InternalError(c, err)
			return
		}
	}

	h.log.Warn("all test data cleared",
		zap.Int64("voice_notes", notes),
		zap.Int64("daily_summaries", dailies),
		zap.Int64("weekly_summaries", weeklies))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All test data cleared successfully",
		"deleted_counts": gin.H{
			"voice_notes":      notes,
			"daily_summaries":  dailies,
			"weekly_summaries": weeklies,
		},
		"cleared_at": time.Now(),
	})
}
