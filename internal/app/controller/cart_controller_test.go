package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frecha/iotech-storefront/internal/app/repository"
	"github.com/frecha/iotech-storefront/internal/app/service"
	"github.com/frecha/iotech-storefront/internal/db"
	"github.com/frecha/iotech-storefront/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartRouter(t *testing.T) (*gorm.DB, *gin.Engine) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	cartService := service.NewCartService(repository.NewCartSnapshotRepository(testDB))
	ctrl := NewCartController(cartService)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.SessionIDKey, "sess-1")
	})
	r.GET("/cart", ctrl.GetCart)
	r.POST("/cart/items", ctrl.AddItem)
	r.PUT("/cart/items", ctrl.UpdateItem)
	r.DELETE("/cart/items", ctrl.RemoveItem)
	r.DELETE("/cart", ctrl.ClearCart)

	return testDB, r
}

func doJSON(r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartController_AddItem(t *testing.T) {
	testDB, r := setupCartRouter(t)
	defer db.CleanupTestDB(testDB)

	w := doJSON(r, http.MethodPost, "/cart/items", gin.H{
		"product_id": 1,
		"name":       "AC1200 Router",
		"unit_price": 350.0,
		"quantity":   2,
		"category":   "router",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ItemCount int     `json:"item_count"`
		LineCount int     `json:"line_count"`
		Subtotal  float64 `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.ItemCount)
	assert.Equal(t, 1, resp.LineCount)
	assert.Equal(t, 700.0, resp.Subtotal)
}

func TestCartController_AddItemRejectsZeroQuantity(t *testing.T) {
	testDB, r := setupCartRouter(t)
	defer db.CleanupTestDB(testDB)

	w := doJSON(r, http.MethodPost, "/cart/items", gin.H{
		"product_id": 1,
		"name":       "AC1200 Router",
		"unit_price": 350.0,
		"quantity":   0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_UpdateItemZeroRemovesLine(t *testing.T) {
	testDB, r := setupCartRouter(t)
	defer db.CleanupTestDB(testDB)

	w := doJSON(r, http.MethodPost, "/cart/items", gin.H{
		"product_id": 1,
		"name":       "AC1200 Router",
		"unit_price": 350.0,
		"quantity":   2,
		"category":   "router",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPut, "/cart/items", gin.H{
		"product_id": 1,
		"category":   "router",
		"quantity":   0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		LineCount int `json:"line_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.LineCount)
}

func TestCartController_UpdateMissingLineLeavesCartAlone(t *testing.T) {
	testDB, r := setupCartRouter(t)
	defer db.CleanupTestDB(testDB)

	w := doJSON(r, http.MethodPut, "/cart/items", gin.H{
		"product_id": 42,
		"category":   "router",
		"quantity":   3,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		LineCount int `json:"line_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.LineCount)
}

func TestCartController_RemoveItem(t *testing.T) {
	testDB, r := setupCartRouter(t)
	defer db.CleanupTestDB(testDB)

	w := doJSON(r, http.MethodPost, "/cart/items", gin.H{
		"product_id": 1,
		"name":       "AC1200 Router",
		"unit_price": 350.0,
		"quantity":   1,
		"category":   "router",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodDelete, "/cart/items?product_id=1&category=router", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		LineCount int `json:"line_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.LineCount)
}

func TestCartController_ClearCart(t *testing.T) {
	testDB, r := setupCartRouter(t)
	defer db.CleanupTestDB(testDB)

	w := doJSON(r, http.MethodPost, "/cart/items", gin.H{
		"product_id": 1,
		"name":       "AC1200 Router",
		"unit_price": 350.0,
		"quantity":   1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		LineCount int `json:"line_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.LineCount)
}
