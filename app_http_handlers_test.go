package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"po-scan/ocr"
)

// fakeOCRProvider returns canned text instead of calling a real engine.
type fakeOCRProvider struct {
	text string
	err  error
}

func (f *fakeOCRProvider) RecognizePage(ctx context.Context, imageContent []byte, pageNumber int) (*ocr.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ocr.Result{Text: f.text, Metadata: map[string]string{"provider": "fake"}}, nil
}

// pngMagic is enough for content sniffing; the fake provider never decodes it.
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return &App{
		Database:  InitializeDB(t.TempDir()),
		OCR:       &fakeOCRProvider{text: "recognized text"},
		uploadDir: t.TempDir(),
		jwtSecret: []byte("test-secret"),
	}
}

func performJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req, _ := http.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLoginFlow(t *testing.T) {
	app := newTestApp(t)
	router := gin.Default()
	router.POST("/api/auth/register", app.registerHandler)
	router.POST("/api/auth/login", app.loginHandler)

	w := performJSON(router, "POST", "/api/auth/register", gin.H{
		"name":     "Taro",
		"email":    "taro@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "taro@example.com", created["email"])
	assert.Equal(t, "user", created["role"])

	// Duplicate email is rejected.
	w = performJSON(router, "POST", "/api/auth/register", gin.H{
		"name":     "Taro",
		"email":    "taro@example.com",
		"password": "another-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(router, "POST", "/api/auth/login", gin.H{
		"email":    "taro@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var loggedIn map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loggedIn))
	assert.NotEmpty(t, loggedIn["token"])
	assert.Equal(t, "bearer", loggedIn["token_type"])

	w = performJSON(router, "POST", "/api/auth/login", gin.H{
		"email":    "taro@example.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadDocumentHandler(t *testing.T) {
	app := newTestApp(t)
	router := gin.Default()
	router.POST("/api/ocr/upload", app.uploadDocumentHandler)

	upload := func(filename string, content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req, _ := http.NewRequest("POST", "/api/ocr/upload", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := upload("scan.png", pngMagic)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "processing", resp["status"])
	assert.NotEmpty(t, resp["jobId"])

	record, err := GetOCRRecord(app.Database, uint(resp["ocrId"].(float64)))
	require.NoError(t, err)
	assert.Equal(t, "pending", record.Status)
	assert.Equal(t, "scan.png", record.OriginalName)

	// Content sniffing rejects non-document uploads regardless of name.
	w = upload("notes.pdf", []byte("plain text pretending to be a pdf"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestOCRStatusAndExtract(t *testing.T) {
	app := newTestApp(t)
	router := gin.Default()
	router.GET("/api/ocr/status/:id", app.ocrStatusHandler)
	router.GET("/api/ocr/extract/:id", app.extractOrderHandler)

	rawText := `(Buyer's Info)
ABC Company Foo Corp
Purchase Order: 550123
Ship to: Tokyo Warehouse
Item: Frozen Chicken Leg
Quantity: 1,000 kg
Unit Price: $10.50
EXT Price: 10,500.00
TOTAL 10,500.00
Terms: Net Due within 30 days
Inco Terms: CIF Tokyo
Currency: USD`

	record := &OCRRecord{FilePath: "/tmp/doc.pdf", Status: "processing"}
	require.NoError(t, CreateOCRRecord(app.Database, record))

	w := performJSON(router, "GET", "/api/ocr/status/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"processing"`)

	// Extraction refuses records that have not completed.
	w = performJSON(router, "GET", "/api/ocr/extract/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, UpdateOCRRecord(app.Database, record.ID, "completed", rawText, ""))

	w = performJSON(router, "GET", "/api/ocr/extract/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp extractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Foo Corp", resp.Data.Customer)
	assert.Equal(t, "550123", resp.Data.PONumber)
	require.Len(t, resp.Data.Products, 1)
	assert.Equal(t, "Frozen Chicken Leg", resp.Data.Products[0].Name)
	assert.Equal(t, 1.0, resp.Quality.Completeness)
	assert.Greater(t, resp.Stats.WordCount, 0)

	w = performJSON(router, "GET", "/api/ocr/status/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func registerTestOrder(t *testing.T, router *gin.Engine) uint {
	t.Helper()
	w := performJSON(router, "POST", "/api/po/register", gin.H{
		"customer": "Foo Corp",
		"poNumber": "550123",
		"currency": "USD",
		"products": []gin.H{
			{"name": "Frozen Chicken Leg", "quantity": "1,000", "unitPrice": "10.50", "amount": "10,500.00"},
			{"name": "Frozen Chicken Wing", "quantity": "500", "unitPrice": "8.00", "amount": "4,000.00"},
		},
		"totalAmount":  "14,500.00",
		"paymentTerms": "T/T at sight",
		"terms":        "CIF",
		"destination":  "Tokyo",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return uint(resp["poId"].(float64))
}

func TestRegisterAndListOrders(t *testing.T) {
	app := newTestApp(t)
	router := gin.Default()
	router.POST("/api/po/register", app.registerOrderHandler)
	router.GET("/api/po/list", app.listOrdersHandler)

	poID := registerTestOrder(t, router)

	// An order without products is rejected.
	w := performJSON(router, "POST", "/api/po/register", gin.H{
		"customer": "Bar Corp",
		"poNumber": "660001",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(router, "GET", "/api/po/list", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool           `json:"success"`
		POList  []orderSummary `json:"po_list"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.POList, 1)

	row := resp.POList[0]
	assert.Equal(t, poID, row.ID)
	assert.Equal(t, StatusUnarranged, row.Status)
	assert.Equal(t, "Frozen Chicken Leg, Frozen Chicken Wing", row.ProductName)
	assert.Equal(t, 1500.0, row.Quantity)
	assert.Equal(t, "10.50", row.UnitPrice)
	assert.Equal(t, "14,500.00", row.Amount)

	// Status filter that matches nothing.
	w = performJSON(router, "GET", "/api/po/list?status="+StatusPosted, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.POList)
}

func TestUpdateOrderStatus(t *testing.T) {
	app := newTestApp(t)
	router := gin.Default()
	router.POST("/api/po/register", app.registerOrderHandler)
	router.PATCH("/api/po/:id/status", app.updateOrderStatusHandler)

	registerTestOrder(t, router)

	w := performJSON(router, "PATCH", "/api/po/1/status", gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(router, "PATCH", "/api/po/1/status", gin.H{"status": StatusPosted})
	require.Equal(t, http.StatusOK, w.Code)

	// A posted order cannot move back.
	w = performJSON(router, "PATCH", "/api/po/1/status", gin.H{"status": StatusArranging})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(router, "PATCH", "/api/po/99/status", gin.H{"status": StatusArranging})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMemoAndShipping(t *testing.T) {
	app := newTestApp(t)
	router := gin.Default()
	router.POST("/api/po/register", app.registerOrderHandler)
	router.PATCH("/api/po/:id/status", app.updateOrderStatusHandler)
	router.PUT("/api/po/:id/memo", app.updateOrderMemoHandler)
	router.POST("/api/po/:id/shipping", app.addShippingHandler)

	registerTestOrder(t, router)

	w := performJSON(router, "PUT", "/api/po/1/memo", gin.H{"memo": "rush order"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rush order")

	w = performJSON(router, "PATCH", "/api/po/1/status", gin.H{"status": StatusArranging})
	require.Equal(t, http.StatusOK, w.Code)

	// Creating a schedule with a booking number advances the order.
	w = performJSON(router, "POST", "/api/po/1/shipping", gin.H{
		"shipping_company": "Maersk",
		"booking_number":   "BK-1001",
		"etd":              "2026-09-01",
	})
	require.Equal(t, http.StatusOK, w.Code)

	po, err := GetPurchaseOrder(app.Database, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusArranged, po.Status)
	require.Len(t, po.Schedules, 1)
	assert.Equal(t, "BK-1001", po.Schedules[0].BookingNumber)

	// A second call updates the existing schedule and keeps old values
	// for fields that were not sent.
	w = performJSON(router, "POST", "/api/po/1/shipping", gin.H{
		"vessel_name": "Ever Given",
	})
	require.Equal(t, http.StatusOK, w.Code)

	po, err = GetPurchaseOrder(app.Database, 1)
	require.NoError(t, err)
	require.Len(t, po.Schedules, 1)
	assert.Equal(t, "Ever Given", po.Schedules[0].VesselName)
	assert.Equal(t, "Maersk", po.Schedules[0].ShippingCompany)
}

func TestHealthHandler(t *testing.T) {
	app := newTestApp(t)
	router := gin.Default()
	router.GET("/api/health", app.healthHandler)

	w := performJSON(router, "GET", "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}
