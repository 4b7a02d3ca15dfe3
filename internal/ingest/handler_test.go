package ingest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cemeteryhub/pkg/models"
)

func newTestRouter(fs *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(NewProcessor(fs))
	h.RegisterRoutes(router.Group("/api"))
	return router
}

func postProcess(t *testing.T, router *gin.Engine, req models.ProcessRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/process", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)
	return w
}

func TestProcessEndpoint_Success(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "burials.csv", csvHeader+
		"NJF-100,Ali Hassan,,2024-03-10,2024-03-11,Wadi Al-Salam,32.0,44.3,,,\n")

	router := newTestRouter(&fakeStore{})
	w := postProcess(t, router, models.ProcessRequest{
		DataPath: dir,
		Metadata: testMeta(),
		Source:   "ftp_monitor",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ProcessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.RecordsProcessed)
	assert.Zero(t, resp.RecordsFailed)
	assert.Equal(t, 1, resp.GeoJSONFeaturesCreated)
	assert.GreaterOrEqual(t, resp.ProcessingTimeSeconds, 0.0)
	assert.NotNil(t, resp.Errors, "errors is always a list, never null")
}

func TestProcessEndpoint_SingleFilePath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "burials.csv", csvHeader+
		"NJF-101,Ali Hassan,,2024-03-10,2024-03-11,Wadi Al-Salam,,,,,\n")

	router := newTestRouter(&fakeStore{})
	w := postProcess(t, router, models.ProcessRequest{DataPath: path, Metadata: testMeta()})

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ProcessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.RecordsProcessed)
}

func TestProcessEndpoint_MissingDataPath(t *testing.T) {
	router := newTestRouter(&fakeStore{})
	w := postProcess(t, router, models.ProcessRequest{
		DataPath: filepath.Join(t.TempDir(), "gone"),
		Metadata: testMeta(),
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestProcessEndpoint_InvalidBody(t *testing.T) {
	router := newTestRouter(&fakeStore{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/process", bytes.NewReader([]byte("{")))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}
