package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portalserver/database"
	"portalserver/server/services"
)

// newProductRouter собирает маршруты товарных позиций поверх временной базы
func newProductRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), database.DefaultDBConfig())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pdb, err := database.NewProductDB(db)
	require.NoError(t, err)
	mdb, err := database.NewManufacturerDB(db)
	require.NoError(t, err)
	odb, err := database.NewOrderDB(db)
	require.NoError(t, err)
	tdb, err := database.NewTaskDB(db)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := services.NewProductService(pdb, logger)
	export := services.NewExportService(pdb, mdb, odb, tdb)
	handler := NewProductHandler(service, export)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/api/products")
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/suggest", handler.Suggest)
	group.GET("/export", handler.Export)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	return engine
}

// postJSON отправляет JSON-запрос тестовому маршрутизатору
func postJSON(engine *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// TestProductCreateDuplicateContract проверяет контракт ответа 409
// и обход проверки через confirm_duplicate.
func TestProductCreateDuplicateContract(t *testing.T) {
	engine := newProductRouter(t)

	first := postJSON(engine, "/api/products", gin.H{
		"name":     "Metal Beam Crash Barrier",
		"subtypes": []string{"W-Beam"},
		"unit":     "meter",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	// Почти тот же кандидат отклоняется с описанием конфликта
	second := postJSON(engine, "/api/products", gin.H{
		"name":     "metal beam  crash barrier",
		"subtypes": []string{"w-beam "},
	})
	require.Equal(t, http.StatusConflict, second.Code)

	var conflict struct {
		Duplicate bool             `json:"duplicate"`
		Reason    string           `json:"reason"`
		Existing  database.Product `json:"existing"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &conflict))
	assert.True(t, conflict.Duplicate)
	assert.NotEmpty(t, conflict.Reason)
	assert.Equal(t, "Metal Beam Crash Barrier", conflict.Existing.Name)

	// Подтверждение пользователя пропускает проверку
	confirmed := postJSON(engine, "/api/products", gin.H{
		"name":              "metal beam  crash barrier",
		"subtypes":          []string{"w-beam "},
		"confirm_duplicate": true,
	})
	assert.Equal(t, http.StatusCreated, confirmed.Code)
}

// TestProductCreateValidation проверяет отказ на невалидные поля.
func TestProductCreateValidation(t *testing.T) {
	engine := newProductRouter(t)

	missingName := postJSON(engine, "/api/products", gin.H{"unit": "meter"})
	assert.Equal(t, http.StatusBadRequest, missingName.Code)

	longName := make([]byte, 0, 200)
	for i := 0; i < 200; i++ {
		longName = append(longName, 'a')
	}
	tooLong := postJSON(engine, "/api/products", gin.H{"name": string(longName)})
	assert.Equal(t, http.StatusBadRequest, tooLong.Code)
}

// TestProductSuggestEndpoint проверяет подсказки и обязательный параметр q.
func TestProductSuggestEndpoint(t *testing.T) {
	engine := newProductRouter(t)

	created := postJSON(engine, "/api/products", gin.H{
		"name": "Crash Cushion",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/products/suggest?q=crash+cushon", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Suggestions []struct {
			Value string  `json:"value"`
			Score float64 `json:"score"`
		} `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Suggestions)
	assert.Equal(t, "Crash Cushion", resp.Suggestions[0].Value)

	missing := httptest.NewRequest(http.MethodGet, "/api/products/suggest", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, missing)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestProductGetNotFound проверяет ответ 404 для отсутствующей записи.
func TestProductGetNotFound(t *testing.T) {
	engine := newProductRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/missing", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
