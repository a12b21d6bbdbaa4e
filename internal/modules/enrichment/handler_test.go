package enrichment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ntkr/core/internal/models"
	"github.com/ntkr/core/internal/pkg/taskqueue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T, fake *fakeAI) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	svc := NewService(db, fake, nil, zap.NewNop())

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

func TestProcessEndpoint(t *testing.T) {
	fake := &fakeAI{transcript: "manual resubmit", responses: happyResponses()}
	r, db := newTestRouter(t, fake)
	note := seedNote(t, db, models.StatusError)

	w := postJSON(r, "/api/voice-notes/process", map[string]string{"noteId": note.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AI processing completed")

	var got models.VoiceNoteModel
	require.NoError(t, db.First(&got, "id = ?", note.ID).Error)
	assert.Equal(t, models.StatusCompleted, got.ProcessingStatus)
}

func TestProcessEndpointValidation(t *testing.T) {
	r, _ := newTestRouter(t, &fakeAI{})

	w := postJSON(r, "/api/voice-notes/process", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/voice-notes/process", map[string]string{"noteId": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTasksEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &fakeAI{})

	// No queue configured: an empty page, not an error.
	req := httptest.NewRequest(http.MethodGet, "/api/voice-notes/tasks", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success    bool              `json:"success"`
		Data       []*taskqueue.Task `json:"data"`
		Pagination struct {
			Total   int64 `json:"total"`
			Limit   int   `json:"limit"`
			HasMore bool  `json:"has_more"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Data)
	assert.EqualValues(t, 0, resp.Pagination.Total)
	assert.Equal(t, 10, resp.Pagination.Limit)
	assert.False(t, resp.Pagination.HasMore)
}

func TestListTasksEndpointRejectsUnknownStatus(t *testing.T) {
	r, _ := newTestRouter(t, &fakeAI{})

	req := httptest.NewRequest(http.MethodGet, "/api/voice-notes/tasks?status=bogus", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown task status")
}
