package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appdeck/internal/domain"
	"appdeck/internal/domain/models"
	"appdeck/internal/domain/services"
	"appdeck/internal/httputil"
)

// stubFolderService returns canned results so handler tests only exercise
// request parsing, context plumbing and envelope shaping.
type stubFolderService struct {
	folders   []models.FolderWithCount
	folder    *models.FolderWithCount
	apps      []models.App
	err       error
	lastMove  *moveCall
	lastUser  string
	lastReqID string
}

type moveCall struct {
	appID    string
	folderID *string
	userID   string
}

func (s *stubFolderService) ListFolders(_ context.Context, userID string) ([]models.FolderWithCount, error) {
	s.lastUser = userID
	return s.folders, s.err
}

func (s *stubFolderService) GetFolder(_ context.Context, id, userID string) (*models.FolderWithCount, error) {
	s.lastUser, s.lastReqID = userID, id
	if s.err != nil {
		return nil, s.err
	}
	return s.folder, nil
}

func (s *stubFolderService) CreateFolder(_ context.Context, req *services.CreateFolderRequest) (*models.FolderWithCount, error) {
	s.lastUser = req.UserID
	if s.err != nil {
		return nil, s.err
	}
	return s.folder, nil
}

func (s *stubFolderService) UpdateFolder(_ context.Context, id string, req *services.UpdateFolderRequest) (*models.FolderWithCount, error) {
	s.lastUser, s.lastReqID = req.UserID, id
	if s.err != nil {
		return nil, s.err
	}
	return s.folder, nil
}

func (s *stubFolderService) DeleteFolder(_ context.Context, id, userID string) error {
	s.lastUser, s.lastReqID = userID, id
	return s.err
}

func (s *stubFolderService) MoveApp(_ context.Context, appID string, folderID *string, userID string) error {
	s.lastMove = &moveCall{appID: appID, folderID: folderID, userID: userID}
	return s.err
}

func (s *stubFolderService) ListAppsInFolder(_ context.Context, folderID, userID string) ([]models.App, error) {
	s.lastUser, s.lastReqID = userID, folderID
	if s.err != nil {
		return nil, s.err
	}
	return s.apps, nil
}

func (s *stubFolderService) GetAppFolder(_ context.Context, appID string) (*string, error) {
	return nil, s.err
}

func newTestMux(svc services.FolderService) *http.ServeMux {
	h := NewFolderHandler(svc, slog.New(slog.DiscardHandler))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/folders", h.ListFolders)
	mux.HandleFunc("POST /api/folders", h.CreateFolder)
	mux.HandleFunc("POST /api/folders/move", h.MoveApp)
	mux.HandleFunc("GET /api/folders/{id}", h.GetFolder)
	mux.HandleFunc("PUT /api/folders/{id}", h.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.DeleteFolder)
	mux.HandleFunc("GET /api/folders/{id}/apps", h.ListFolderApps)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req = httputil.WithUserID(req, userID)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httputil.Envelope {
	t.Helper()
	var env httputil.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func sampleFolder() *models.FolderWithCount {
	return &models.FolderWithCount{
		Folder: models.Folder{
			ID:        "f1",
			UserID:    "u1",
			Name:      "Work",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		AppCount: 2,
	}
}

func TestListFoldersEnvelope(t *testing.T) {
	svc := &stubFolderService{folders: []models.FolderWithCount{*sampleFolder()}}
	rec := doRequest(t, newTestMux(svc), http.MethodGet, "/api/folders", "", "u1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	assert.Equal(t, "u1", svc.lastUser)
}

func TestCreateFolderSuccess(t *testing.T) {
	svc := &stubFolderService{folder: sampleFolder()}
	rec := doRequest(t, newTestMux(svc), http.MethodPost, "/api/folders", `{"name":"Work"}`, "u1")

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "u1", svc.lastUser)
}

func TestCreateFolderValidationError(t *testing.T) {
	svc := &stubFolderService{err: fmt.Errorf("%w: name too long", domain.ErrValidation)}
	rec := doRequest(t, newTestMux(svc), http.MethodPost, "/api/folders", `{"name":"x"}`, "u1")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	// Validation detail passes through verbatim
	assert.Contains(t, env.Error.Message, "name too long")
	assert.Equal(t, "validation_error", env.Error.Code)
}

func TestCreateFolderMalformedBody(t *testing.T) {
	svc := &stubFolderService{}
	rec := doRequest(t, newTestMux(svc), http.MethodPost, "/api/folders", `{"name"`, "u1")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetFolderNotFoundIsUniform(t *testing.T) {
	svc := &stubFolderService{err: fmt.Errorf("folder f9: %w", domain.ErrNotFound)}
	rec := doRequest(t, newTestMux(svc), http.MethodGet, "/api/folders/f9", "", "u1")

	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	// Never leaks whether the folder exists for someone else
	assert.Equal(t, "resource not found", env.Error.Message)
	assert.Equal(t, "not_found", env.Error.Code)
}

func TestUpdateFolderPassesPathID(t *testing.T) {
	svc := &stubFolderService{folder: sampleFolder()}
	rec := doRequest(t, newTestMux(svc), http.MethodPut, "/api/folders/f1", `{"name":"Renamed"}`, "u1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "f1", svc.lastReqID)
	assert.Equal(t, "u1", svc.lastUser)
}

func TestDeleteFolderEnvelope(t *testing.T) {
	svc := &stubFolderService{}
	rec := doRequest(t, newTestMux(svc), http.MethodDelete, "/api/folders/f1", "", "u1")

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
}

func TestStorageFailureIsGeneric(t *testing.T) {
	svc := &stubFolderService{err: fmt.Errorf("connection refused")}
	rec := doRequest(t, newTestMux(svc), http.MethodGet, "/api/folders", "", "u1")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	// Internals are never surfaced to the caller
	assert.Equal(t, "internal server error", env.Error.Message)
}

func TestMoveAppWithFolder(t *testing.T) {
	svc := &stubFolderService{}
	rec := doRequest(t, newTestMux(svc), http.MethodPost, "/api/folders/move",
		`{"appId":"a1","folderId":"f1"}`, "u1")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastMove)
	assert.Equal(t, "a1", svc.lastMove.appID)
	require.NotNil(t, svc.lastMove.folderID)
	assert.Equal(t, "f1", *svc.lastMove.folderID)
	assert.Equal(t, "u1", svc.lastMove.userID)
}

func TestMoveAppWithNullFolderUnfiles(t *testing.T) {
	svc := &stubFolderService{}
	rec := doRequest(t, newTestMux(svc), http.MethodPost, "/api/folders/move",
		`{"appId":"a1","folderId":null}`, "u1")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastMove)
	assert.Nil(t, svc.lastMove.folderID)
}

func TestMoveAppRequiresAppID(t *testing.T) {
	svc := &stubFolderService{}
	rec := doRequest(t, newTestMux(svc), http.MethodPost, "/api/folders/move",
		`{"folderId":"f1"}`, "u1")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.lastMove)
}

func TestListFolderApps(t *testing.T) {
	svc := &stubFolderService{apps: []models.App{{ID: "a1", UserID: "u1", Name: "tracker"}}}
	rec := doRequest(t, newTestMux(svc), http.MethodGet, "/api/folders/f1/apps", "", "u1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "f1", svc.lastReqID)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
}
