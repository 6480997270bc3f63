package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"qualitea/internal/analysis"
	"qualitea/internal/model"
	"qualitea/internal/testimg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

type fixedPredictor string

func (p fixedPredictor) Predict(context.Context, []float64) (string, error) {
	return string(p), nil
}

func setupTestServer(t *testing.T, models *model.Registry) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a := analysis.New(zerolog.Nop(), models, analysis.DefaultOptions())
	return New(a, zerolog.Nop(), 4<<20).Handler()
}

func encodePNG(t *testing.T, img gocv.Mat) []byte {
	t.Helper()
	im, err := img.ToImage()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, im))
	return buf.Bytes()
}

func fiberPNG(t *testing.T) []byte {
	img := testimg.Canvas(300, 300)
	defer img.Close()
	testimg.FillPolygon(&img, testimg.LShape(100, 100), testimg.RGB(40, 30, 20))
	testimg.FillRect(&img, 200, 200, 239, 239, testimg.RGB(150, 100, 60))
	return encodePNG(t, img)
}

func blankPNG(t *testing.T) []byte {
	img := testimg.Canvas(100, 100)
	defer img.Close()
	return encodePNG(t, img)
}

// performUpload posts data as the multipart field name.
func performUpload(r http.Handler, path, field string, data []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if field != "" {
		part, _ := w.CreateFormFile(field, "sample.png")
		_, _ = io.Copy(part, bytes.NewReader(data))
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	r := setupTestServer(t, model.NewRegistry(nil, nil, fixedPredictor("x"), nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, map[string]any{"variant": false, "infusion": true, "liquid": false}, body["models"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMissingFile(t *testing.T) {
	r := setupTestServer(t, nil)
	rec := performUpload(r, "/identify-fiber", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file part", decode(t, rec)["error"])
}

func TestGarbageUpload(t *testing.T) {
	r := setupTestServer(t, nil)
	rec := performUpload(r, "/identify-stroke", "image", []byte("definitely not a photo"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "image_decode_error", decode(t, rec)["kind"])
}

func TestIdentifyFiber(t *testing.T) {
	r := setupTestServer(t, nil)
	rec := performUpload(r, "/identify-fiber", "image", fiberPNG(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	stats := body["statistics"].(map[string]any)
	assert.Equal(t, 1.0, stats["number_of_thin_particles"])
	assert.Equal(t, 2.0, stats["total_number_of_particles"])
	assert.Equal(t, 50.0, stats["fiber_percentage"])
	assert.NotEmpty(t, body["result_image"])
}

func TestIdentifyStrokeBlank(t *testing.T) {
	r := setupTestServer(t, nil)
	rec := performUpload(r, "/identify-stroke", "image", blankPNG(t))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, map[string]any{"error": "No contours found"}, body["statistics"])
	assert.NotEmpty(t, body["result_image"])
}

func TestIdentifyStroke(t *testing.T) {
	r := setupTestServer(t, nil)
	rec := performUpload(r, "/identify-stroke", "image", fiberPNG(t))
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode(t, rec)["statistics"].(map[string]any)
	assert.Equal(t, 2.0, stats["number_of_external_contours"])
	assert.Equal(t, 1.0, stats["number_of_brown_particles"])
	assert.Equal(t, 150.0, stats["average_brown_r"])
}

func TestPredictUnavailable(t *testing.T) {
	r := setupTestServer(t, nil)
	rec := performUpload(r, "/predict_infusion", "image", fiberPNG(t))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "classification_unavailable", decode(t, rec)["kind"])
}

func TestPredictInfusion(t *testing.T) {
	r := setupTestServer(t, model.NewRegistry(nil, nil, fixedPredictor("Best"), nil))
	rec := performUpload(r, "/predict_infusion", "image", fiberPNG(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Best", decode(t, rec)["prediction"])
}

func TestPredictLiquidWithoutCup(t *testing.T) {
	r := setupTestServer(t, model.NewRegistry(nil, nil, nil, fixedPredictor("Low")))
	rec := performUpload(r, "/predict_liquid", "image", blankPNG(t))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "feature_extraction_failure", decode(t, rec)["kind"])
}

func TestGenerateReport(t *testing.T) {
	r := setupTestServer(t, nil)
	rec := performUpload(r, "/generate_report", "image", fiberPNG(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "", body["tea_variant"])
	assert.Contains(t, body["tea_variant_error"], "classification unavailable")
	assert.NotEmpty(t, body["fiber_image"])
	assert.NotEmpty(t, body["stroke_image"])
	fiberStats := body["fiber_statistics"].(map[string]any)
	assert.Equal(t, 1.0, fiberStats["number_of_thin_particles"])
}

func TestGenerateReportBlank(t *testing.T) {
	r := setupTestServer(t, nil)
	rec := performUpload(r, "/generate_report", "image", blankPNG(t))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "no_contours_found", decode(t, rec)["kind"])
}

func TestPreflight(t *testing.T) {
	r := setupTestServer(t, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/identify-fiber", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
