package voicenote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ntkr/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.VoiceNoteModel{}))
	return db
}

// fakeStore keeps blobs in memory and records deletions.
type fakeStore struct {
	mu      sync.Mutex
	uploads map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: map[string][]byte{}}
}

func (f *fakeStore) Upload(ctx context.Context, objectKey string, payload []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[objectKey] = payload
	return "https://blob.example.com/" + objectKey, nil
}

func (f *fakeStore) Delete(ctx context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeStore) KeyFromURL(blobURL string) string {
	return strings.TrimPrefix(blobURL, "https://blob.example.com/")
}

type fakeEnqueuer struct{ ids chan string }

func (f *fakeEnqueuer) EnqueueEnrichment(ctx context.Context, noteID string) error {
	f.ids <- noteID
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *fakeStore, *fakeEnqueuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	store := newFakeStore()
	enq := &fakeEnqueuer{ids: make(chan string, 8)}

	svc := NewService(db, store, zap.NewNop())
	h := NewHandler(svc, enq, zap.NewNop())

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r, db, store, enq
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, audio []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := w.CreateFormFile("message", filename)
		require.NoError(t, err)
		_, err = fw.Write(audio)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadNoFile(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, map[string]string{"timestamp": "now"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/voice-notes", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No audio file provided")
}

func TestUploadThenImmediateStatusPoll(t *testing.T) {
	r, _, store, enq := newTestRouter(t)

	fields := map[string]string{
		"timestamp": "2026-03-02T09:15:00Z",
		"location":  "Berlin",
	}
	body, contentType := multipartUpload(t, fields, "morning.webm", []byte("fake audio bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/voice-notes", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID               string `json:"id"`
			Filename         string `json:"filename"`
			BlobURL          string `json:"blob_url"`
			ProcessingStatus string `json:"processing_status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "morning.webm", resp.Data.Filename)
	assert.Equal(t, string(models.StatusProcessing), resp.Data.ProcessingStatus)
	require.NotEmpty(t, resp.Data.ID)
	assert.Len(t, store.uploads, 1)

	// the placeholder row must exist before the upload response was sent
	statusReq := httptest.NewRequest(http.MethodGet, "/api/voice-notes/status/"+resp.Data.ID, nil)
	statusW := httptest.NewRecorder()
	r.ServeHTTP(statusW, statusReq)
	require.Equal(t, http.StatusOK, statusW.Code)
	assert.Contains(t, statusW.Body.String(), "Processing...")

	// enrichment was triggered in the background with the new id
	select {
	case id := <-enq.ids:
		assert.Equal(t, resp.Data.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("enrichment was never enqueued")
	}
}

func TestUploadWithoutLocation(t *testing.T) {
	r, db, _, _ := newTestRouter(t)

	body, contentType := multipartUpload(t, map[string]string{"timestamp": "2026-03-02T09:15:00Z"}, "clip.wav", []byte("audio"))
	req := httptest.NewRequest(http.MethodPost, "/api/voice-notes", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var note models.VoiceNoteModel
	require.NoError(t, db.First(&note).Error)
	assert.Equal(t, "", note.Location)
	assert.Equal(t, "2026-03-02", note.RecordedDate)
	assert.Equal(t, "09:15:00", note.RecordedTime)
}

func TestStatusUnknownID(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/voice-notes/status/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Note not found")
}

func TestDeleteNote(t *testing.T) {
	r, db, store, _ := newTestRouter(t)

	note := models.VoiceNoteModel{
		Filename:         "clip.wav",
		BlobURL:          "https://blob.example.com/voice-notes/clip.wav",
		ProcessingStatus: models.StatusCompleted,
	}
	require.NoError(t, db.Create(&note).Error)

	payload, _ := json.Marshal(map[string]string{"id": note.ID})
	req := httptest.NewRequest(http.MethodDelete, "/api/voice-notes", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), note.ID)
	assert.Contains(t, w.Body.String(), "clip.wav")

	// row is gone
	statusReq := httptest.NewRequest(http.MethodGet, "/api/voice-notes/status/"+note.ID, nil)
	statusW := httptest.NewRecorder()
	r.ServeHTTP(statusW, statusReq)
	assert.Equal(t, http.StatusNotFound, statusW.Code)

	// blob deletion is async best-effort
	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.deleted) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDeleteUnknownNote(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	payload, _ := json.Marshal(map[string]string{"id": "missing"})
	req := httptest.NewRequest(http.MethodDelete, "/api/voice-notes", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Voice note not found")
}

func TestDeleteMissingID(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/voice-notes", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestList(t *testing.T) {
	r, db, _, _ := newTestRouter(t)

	for i := 0; i < 3; i++ {
		n := models.VoiceNoteModel{Filename: fmt.Sprintf("n%d.wav", i), BlobURL: "https://blob.example.com/x"}
		n.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&n).Error)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/voice-notes/list", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data  []models.VoiceNoteModel `json:"data"`
		Count int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "n2.wav", resp.Data[0].Filename, "newest first")
	assert.NotNil(t, resp.Data[0].Topics, "list fields are never null")
}

func TestSplitTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)

	at, date, clock := splitTimestamp("2026-03-01T22:30:05Z", now)
	assert.Equal(t, "2026-03-01T22:30:05Z", at)
	assert.Equal(t, "2026-03-01", date)
	assert.Equal(t, "22:30:05", clock)

	_, date, clock = splitTimestamp("", now)
	assert.Equal(t, "2026-03-02", date)
	assert.Equal(t, "09:15:00", clock)

	_, date, clock = splitTimestamp("2026-03-01T10:00:00.123", now)
	assert.Equal(t, "2026-03-01", date)
	assert.Equal(t, "10:00:00", clock)
}
