package recordings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meetcapture/backend/internal/models"
	"github.com/meetcapture/backend/pkg/response"
)

// memGateway is an in-memory Gateway double with the repository's delete
// and defaulting semantics.
type memGateway struct {
	recordings map[uuid.UUID]*models.Recording
}

func newMemGateway() *memGateway {
	return &memGateway{recordings: make(map[uuid.UUID]*models.Recording)}
}

func (g *memGateway) ListUpcoming(context.Context) ([]models.Recording, error) {
	return g.list(models.RecordingStatusUpcoming), nil
}

func (g *memGateway) ListPast(context.Context) ([]models.Recording, error) {
	out := g.list(models.RecordingStatusProcessing)
	return append(out, g.list(models.RecordingStatusProcessed)...), nil
}

func (g *memGateway) list(status string) []models.Recording {
	out := make([]models.Recording, 0)
	for _, rec := range g.recordings {
		if rec.Status == status {
			out = append(out, *rec)
		}
	}
	return out
}

func (g *memGateway) GetByID(_ context.Context, id uuid.UUID) (*models.Recording, error) {
	rec, ok := g.recordings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (g *memGateway) Create(_ context.Context, in CreateInput) (*models.Recording, error) {
	in = ApplyDefaults(in, time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))
	if err := Validate(in); err != nil {
		return nil, err
	}
	rec := &models.Recording{
		ID:       uuid.New(),
		Title:    in.Title,
		MeetLink: in.MeetLink,
		Date:     in.Date,
		Time:     in.Time,
		Duration: in.Duration,
		Quality:  in.Quality,
		Storage:  in.Storage,
		Status:   models.RecordingStatusUpcoming,
	}
	g.recordings[rec.ID] = rec
	return rec, nil
}

func (g *memGateway) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	rec, ok := g.recordings[id]
	if !ok {
		return false, nil
	}
	if rec.Status != models.RecordingStatusUpcoming {
		return false, models.ErrConflict
	}
	delete(g.recordings, id)
	return true, nil
}

func newTestRouter(g Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(g, NewListCache(nil, nil), nil, nil)
	r := gin.New()
	r.GET("/recordings/upcoming", h.ListUpcoming)
	r.GET("/recordings/past", h.ListPast)
	r.POST("/recordings", h.Schedule)
	r.GET("/recordings/:id", h.GetByID)
	r.DELETE("/recordings/:id", h.CancelSchedule)
	r.GET("/recordings/:id/download-url", h.DownloadURL)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Body) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var envelope response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

func TestScheduleAppliesDefaults(t *testing.T) {
	g := newMemGateway()
	r := newTestRouter(g)

	w, envelope := doJSON(t, r, http.MethodPost, "/recordings", CreateInput{
		Title:    "Weekly sync",
		MeetLink: "https://meet.example.com/abc",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, envelope.Success)

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var rec models.Recording
	require.NoError(t, json.Unmarshal(raw, &rec))
	require.Equal(t, models.RecordingStatusUpcoming, rec.Status)
	require.Equal(t, "60 min", rec.Duration)
	require.Equal(t, models.QualityHD, rec.Quality)
	require.Equal(t, models.StorageGoogleDrive, rec.Storage)
}

func TestScheduleValidationFailure(t *testing.T) {
	g := newMemGateway()
	r := newTestRouter(g)

	w, envelope := doJSON(t, r, http.MethodPost, "/recordings", CreateInput{
		Title:    "Broken",
		MeetLink: "https://meet.example.com/abc",
		Duration: "whenever",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, envelope.Success)
	require.Empty(t, g.recordings)
}

func TestCancelScheduleMissingIDIsIdempotent(t *testing.T) {
	g := newMemGateway()
	r := newTestRouter(g)

	w, envelope := doJSON(t, r, http.MethodDelete, "/recordings/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, envelope.Success)
	require.Equal(t, map[string]interface{}{"deleted": false}, envelope.Data)
}

func TestCancelScheduleConflictForPastRecording(t *testing.T) {
	g := newMemGateway()
	rec, err := g.Create(context.Background(), CreateInput{Title: "Done", MeetLink: "https://meet.example.com/x"})
	require.NoError(t, err)
	g.recordings[rec.ID].Status = models.RecordingStatusProcessed
	r := newTestRouter(g)

	w, envelope := doJSON(t, r, http.MethodDelete, "/recordings/"+rec.ID.String(), nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.False(t, envelope.Success)
}

func TestCancelScheduleDeletesUpcoming(t *testing.T) {
	g := newMemGateway()
	rec, err := g.Create(context.Background(), CreateInput{Title: "Soon", MeetLink: "https://meet.example.com/y"})
	require.NoError(t, err)
	r := newTestRouter(g)

	w, envelope := doJSON(t, r, http.MethodDelete, "/recordings/"+rec.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, map[string]interface{}{"deleted": true}, envelope.Data)
	require.Empty(t, g.recordings)
}

func TestGetByIDNotFound(t *testing.T) {
	r := newTestRouter(newMemGateway())
	w, envelope := doJSON(t, r, http.MethodGet, "/recordings/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, envelope.Success)
}

func TestDownloadURLRequiresProcessed(t *testing.T) {
	g := newMemGateway()
	rec, err := g.Create(context.Background(), CreateInput{Title: "Soon", MeetLink: "https://meet.example.com/z"})
	require.NoError(t, err)
	r := newTestRouter(g)

	w, _ := doJSON(t, r, http.MethodGet, "/recordings/"+rec.ID.String()+"/download-url", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadURLReturnsStoredURL(t *testing.T) {
	g := newMemGateway()
	rec, err := g.Create(context.Background(), CreateInput{Title: "Done", MeetLink: "https://meet.example.com/z"})
	require.NoError(t, err)
	g.recordings[rec.ID].Status = models.RecordingStatusProcessed
	g.recordings[rec.ID].VideoURL = "https://drive.google.com/meetcapture/" + rec.ID.String() + ".mp4"
	r := newTestRouter(g)

	w, envelope := doJSON(t, r, http.MethodGet, "/recordings/"+rec.ID.String()+"/download-url", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := envelope.Data.(map[string]interface{})
	require.Equal(t, g.recordings[rec.ID].VideoURL, data["download_url"])
}
