package controllers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gee-graphics/gee-graphics-api/models"
	"github.com/gee-graphics/gee-graphics-api/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupUploadTest(t *testing.T) (*gin.Engine, *services.MockOrderStore, *services.MockMockupService) {
	t.Helper()

	store := services.NewMockOrderStore()
	store.SetAsMockForTesting()

	mockups := services.NewMockMockupService()
	mockups.SetAsMockForTesting()

	router := setupTestRouter()
	auth := mockAuthMiddleware(1, "gee")
	router.POST("/orders/:id/image", auth, UploadMockup)
	router.GET("/orders/:id/image", auth, GetMockup)

	return router, store, mockups
}

// makePNG builds a small in-memory PNG for upload tests
func makePNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func performUpload(router *gin.Engine, path, filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("image", filename)
	part.Write(content)
	writer.Close()

	req, _ := http.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadMockup(t *testing.T) {
	router, store, mockups := setupUploadTest(t)

	order := seedOrder(t, store, 1, "Eagles", models.StatusOngoing)

	w := performUpload(router, "/orders/"+order.ID+"/image", "mockup.png", makePNG(t))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response["success"].(bool))

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "ready", data["image_state"])
	assert.NotEmpty(t, data["image_key"])
	assert.NotEmpty(t, data["image_url"])

	stored, err := store.GetOrder(1, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ImageReady, stored.ImageState)
	assert.True(t, mockups.MockupExists(stored.ImageKey))
}

func TestUploadMockup_ReplacesPrevious(t *testing.T) {
	router, store, mockups := setupUploadTest(t)

	order := seedOrder(t, store, 1, "Eagles", models.StatusOngoing)

	w := performUpload(router, "/orders/"+order.ID+"/image", "first.png", makePNG(t))
	assert.Equal(t, http.StatusOK, w.Code)
	first, _ := store.GetOrder(1, order.ID)

	w = performUpload(router, "/orders/"+order.ID+"/image", "second.png", makePNG(t))
	assert.Equal(t, http.StatusOK, w.Code)
	second, _ := store.GetOrder(1, order.ID)

	assert.NotEqual(t, first.ImageKey, second.ImageKey)
	assert.False(t, mockups.MockupExists(first.ImageKey), "replaced mockup is cleaned up")
	assert.True(t, mockups.MockupExists(second.ImageKey))
}

func TestUploadMockup_InvalidExtension(t *testing.T) {
	router, store, _ := setupUploadTest(t)

	order := seedOrder(t, store, 1, "Eagles", models.StatusOngoing)

	w := performUpload(router, "/orders/"+order.ID+"/image", "mockup.gif", makePNG(t))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_FILE_FORMAT", errorData["code"])

	// Order untouched
	stored, _ := store.GetOrder(1, order.ID)
	assert.Equal(t, models.ImageNone, stored.ImageState)
}

func TestUploadMockup_MissingFile(t *testing.T) {
	router, store, _ := setupUploadTest(t)

	order := seedOrder(t, store, 1, "Eagles", models.StatusOngoing)

	w := performJSONRequest(router, http.MethodPost, "/orders/"+order.ID+"/image", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadMockup_OrderNotFound(t *testing.T) {
	router, _, _ := setupUploadTest(t)

	w := performUpload(router, "/orders/missing/image", "mockup.png", makePNG(t))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMockup(t *testing.T) {
	router, store, _ := setupUploadTest(t)

	order := seedOrder(t, store, 1, "Eagles", models.StatusOngoing)

	w := performUpload(router, "/orders/"+order.ID+"/image", "mockup.png", makePNG(t))
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSONRequest(router, http.MethodGet, "/orders/"+order.ID+"/image", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Contains(t, data["url"], "mockups/")
}

func TestGetMockup_NoImage(t *testing.T) {
	router, store, _ := setupUploadTest(t)

	order := seedOrder(t, store, 1, "Eagles", models.StatusOngoing)

	w := performJSONRequest(router, http.MethodGet, "/orders/"+order.ID+"/image", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "IMAGE_NOT_FOUND", errorData["code"])
}
