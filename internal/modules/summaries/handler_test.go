package summaries

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ntkr/core/internal/modules/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T, responses map[ai.TaskKind]string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	svc := NewService(db, &fakeAI{responses: responses}, zap.NewNop())

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r, db
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateDailyEndpointEmptyDay(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postJSON(r, "/api/summaries/daily/generate", map[string]string{"date": "2026-03-02"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No voice notes found for this date")
	assert.Contains(t, w.Body.String(), "2026-03-02")
}

func TestGenerateDailyEndpointBadDate(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postJSON(r, "/api/summaries/daily/generate", map[string]string{"date": "March 2nd"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid date format")

	w = postJSON(r, "/api/summaries/daily/generate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDailyEndpointSuggestsGeneration(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := get(r, "/api/summaries/daily/2026-03-02")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "daily/generate")
}

func TestDailyGenerateAndRead(t *testing.T) {
	responses := map[ai.TaskKind]string{ai.TaskDailySummary: validDailyResponse}
	r, db := newTestRouter(t, responses)

	seedCompletedNote(t, db, "2026-03-02", "09:15", 8)

	w := postJSON(r, "/api/summaries/daily/generate", map[string]string{"date": "2026-03-02"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = get(r, "/api/summaries/daily/2026-03-02")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Summary struct {
			SummaryText     string `json:"summary_text"`
			TotalRecordings int    `json:"total_recordings"`
		} `json:"summary"`
		RelatedNotes struct {
			Count int `json:"count"`
		} `json:"related_notes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Summary.TotalRecordings)
	assert.Equal(t, 1, resp.RelatedNotes.Count)
	assert.NotEmpty(t, resp.Summary.SummaryText)
}

func TestWeeklyReadIncludesStats(t *testing.T) {
	responses := map[ai.TaskKind]string{ai.TaskWeeklySummary: validWeeklyResponse}
	r, db := newTestRouter(t, responses)

	seedCompletedNote(t, db, "2026-03-02", "09:15", 8)
	seedCompletedNote(t, db, "2026-03-03", "14:00", 6)

	w := postJSON(r, "/api/summaries/weekly/generate", map[string]string{"weekStartDate": "2026-03-02"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "2026-03-02 to 2026-03-08")

	w = get(r, "/api/summaries/weekly/2026-03-02")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		WeekStart   string `json:"week_start"`
		WeekEnd     string `json:"week_end"`
		WeeklyStats struct {
			TotalNotes int     `json:"total_notes"`
			AvgMood    float64 `json:"avg_mood"`
		} `json:"weekly_stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-03-02", resp.WeekStart)
	assert.Equal(t, "2026-03-08", resp.WeekEnd)
	assert.Equal(t, 2, resp.WeeklyStats.TotalNotes)
	assert.Equal(t, 7.0, resp.WeeklyStats.AvgMood)
}

func TestListAllEndpointPagination(t *testing.T) {
	responses := map[ai.TaskKind]string{ai.TaskDailySummary: validDailyResponse}
	r, db := newTestRouter(t, responses)

	seedCompletedNote(t, db, "2026-03-02", "09:15", 8)
	w := postJSON(r, "/api/summaries/daily/generate", map[string]string{"date": "2026-03-02"})
	require.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/api/summaries/all?limit=5")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success    bool       `json:"success"`
		Summaries  []FeedItem `json:"summaries"`
		Pagination struct {
			Limit         int   `json:"limit"`
			TotalDaily    int64 `json:"total_daily"`
			TotalWeekly   int64 `json:"total_weekly"`
			TotalCombined int64 `json:"total_combined"`
			HasMore       bool  `json:"has_more"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Summaries, 1)
	assert.Equal(t, "daily", resp.Summaries[0].Type)
	assert.Equal(t, 5, resp.Pagination.Limit)
	assert.EqualValues(t, 1, resp.Pagination.TotalDaily)
	assert.EqualValues(t, 0, resp.Pagination.TotalWeekly)
	assert.EqualValues(t, 1, resp.Pagination.TotalCombined)
	assert.False(t, resp.Pagination.HasMore)

	// A second day pushes the combined total past a limit of 1.
	seedCompletedNote(t, db, "2026-03-03", "10:00", 6)
	w = postJSON(r, "/api/summaries/daily/generate", map[string]string{"date": "2026-03-03"})
	require.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/api/summaries/all?limit=1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Pagination.Limit)
	assert.EqualValues(t, 2, resp.Pagination.TotalCombined)
	assert.True(t, resp.Pagination.HasMore)
}
