package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"po-scan/extractor"
)

// loginHandler handles POST /api/auth/login.
func (app *App) loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request payload: %v", err)})
		return
	}

	user, err := GetUserByEmail(app.Database, req.Email)
	if err != nil || !verifyPassword(req.Password, user.PasswordHash) {
		log.Warnf("Login failed for %s", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := createAccessToken(user.ID, user.Email, app.jwtSecret)
	if err != nil {
		log.Errorf("Failed to create access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create access token"})
		return
	}

	log.Infof("Login succeeded for %s", req.Email)
	c.JSON(http.StatusOK, gin.H{"token": token, "token_type": "bearer"})
}

// registerHandler handles POST /api/auth/register.
func (app *App) registerHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request payload: %v", err)})
		return
	}

	if _, err := GetUserByEmail(app.Database, req.Email); err == nil {
		log.Warnf("Registration rejected, email already in use: %s", req.Email)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email address is already registered"})
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		log.Errorf("Failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	user := &User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := CreateUser(app.Database, user); err != nil {
		log.Errorf("Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	log.Infof("Registered user %s", req.Email)
	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// uploadDocumentHandler handles POST /api/ocr/upload. The file is sniffed,
// stored to disk and queued for recognition by the worker pool.
func (app *App) uploadDocumentHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	if _, err := detectDocumentType(content); err != nil {
		log.Warnf("Rejected upload %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	filename := uuid.New().String() + mimetype.Detect(content).Extension()
	filePath := filepath.Join(app.uploadDir, filename)
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		log.Errorf("Failed to store upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}

	record := &OCRRecord{
		UserID:       currentUserID(c),
		FilePath:     filePath,
		OriginalName: fileHeader.Filename,
		Status:       "pending",
	}
	if err := CreateOCRRecord(app.Database, record); err != nil {
		log.Errorf("Failed to create OCR record: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create OCR record"})
		return
	}

	job := &Job{
		ID:        generateJobID(),
		RecordID:  record.ID,
		Status:    "pending",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	jobStore.addJob(job)
	jobQueue <- job

	log.Infof("Queued recognition job %s for record %d (%s)", job.ID, record.ID, fileHeader.Filename)
	c.JSON(http.StatusOK, gin.H{"ocrId": record.ID, "jobId": job.ID, "status": "processing"})
}

// ocrStatusHandler handles GET /api/ocr/status/:id.
func (app *App) ocrStatusHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OCR record ID"})
		return
	}

	record, err := GetOCRRecord(app.Database, uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "OCR record not found"})
		return
	}

	resp := gin.H{"ocrId": record.ID, "status": record.Status}
	if record.Status == "failed" && record.ErrorMessage != "" {
		resp["error"] = record.ErrorMessage
	}
	c.JSON(http.StatusOK, resp)
}

// extractOrderHandler handles GET /api/ocr/extract/:id. It runs the
// extraction engine over the recognized text and returns the structured
// order together with its quality assessment and statistics.
func (app *App) extractOrderHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OCR record ID"})
		return
	}

	record, err := GetOCRRecord(app.Database, uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "OCR record not found"})
		return
	}
	if record.Status != "completed" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recognition has not completed yet"})
		return
	}

	order := extractor.ExtractPurchaseOrder(record.RawText)
	quality := extractor.AssessQuality(order)
	stats := extractor.ExtractionStats(record.RawText, order)

	c.JSON(http.StatusOK, extractResponse{
		OCRID:   record.ID,
		Data:    order,
		Quality: quality,
		Stats:   stats,
	})
}

// registerOrderHandler handles POST /api/po/register.
func (app *App) registerOrderHandler(c *gin.Context) {
	var req registerOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request payload: %v", err)})
		return
	}
	if len(req.Products) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one product is required"})
		return
	}

	po := &PurchaseOrder{
		UserID:        currentUserID(c),
		CustomerName:  req.Customer,
		PONumber:      req.PONumber,
		Currency:      req.Currency,
		TotalAmount:   req.TotalAmount,
		PaymentTerms:  req.PaymentTerms,
		ShippingTerms: req.Terms,
		Destination:   req.Destination,
		Status:        StatusUnarranged,
	}
	for _, product := range req.Products {
		po.Items = append(po.Items, OrderItem{
			ProductName: product.Name,
			Quantity:    product.Quantity,
			UnitPrice:   product.UnitPrice,
			Subtotal:    product.Amount,
		})
	}

	if err := CreatePurchaseOrder(app.Database, po); err != nil {
		log.Errorf("Failed to register purchase order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register purchase order"})
		return
	}

	log.Infof("Registered purchase order %d (%s) for %s", po.ID, po.PONumber, po.CustomerName)
	c.JSON(http.StatusOK, gin.H{"success": true, "poId": po.ID})
}

// listOrdersHandler handles GET /api/po/list. An optional ?status= query
// filters by lifecycle status.
func (app *App) listOrdersHandler(c *gin.Context) {
	orders, err := ListPurchaseOrders(app.Database, c.Query("status"))
	if err != nil {
		log.Errorf("Failed to list purchase orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list purchase orders"})
		return
	}

	summaries := make([]orderSummary, 0, len(orders))
	for _, po := range orders {
		summaries = append(summaries, summarizeOrder(po))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "po_list": summaries})
}

// summarizeOrder flattens a purchase order and its children into one row.
func summarizeOrder(po PurchaseOrder) orderSummary {
	names := make([]string, 0, len(po.Items))
	var totalQuantity float64
	for _, item := range po.Items {
		names = append(names, item.ProductName)
		q := strings.ReplaceAll(item.Quantity, ",", "")
		if q == "" {
			continue
		}
		value, err := strconv.ParseFloat(q, 64)
		if err != nil {
			log.Warnf("Cannot parse quantity %q on order %d", item.Quantity, po.ID)
			continue
		}
		totalQuantity += value
	}

	summary := orderSummary{
		ID:           po.ID,
		Status:       po.Status,
		PONumber:     po.PONumber,
		Customer:     po.CustomerName,
		ProductName:  strings.Join(names, ", "),
		Quantity:     totalQuantity,
		Currency:     po.Currency,
		Amount:       po.TotalAmount,
		PaymentTerms: po.PaymentTerms,
		Terms:        po.ShippingTerms,
		Destination:  po.Destination,
		Memo:         po.Memo,
	}
	if len(po.Items) > 0 {
		summary.UnitPrice = po.Items[0].UnitPrice
	}
	if len(po.Schedules) > 0 {
		s := po.Schedules[0]
		summary.TransitPoint = s.TransitPoint
		summary.CutOffDate = s.CutOffDate
		summary.ETD = s.ETD
		summary.ETA = s.ETA
		summary.BookingNumber = s.BookingNumber
		summary.VesselName = s.VesselName
		summary.VoyageNumber = s.VoyageNumber
		summary.ContainerInfo = s.ContainerSize
	}
	return summary
}

var validStatuses = map[string]bool{
	StatusUnarranged: true,
	StatusArranging:  true,
	StatusArranged:   true,
	StatusPosted:     true,
}

// updateOrderStatusHandler handles PATCH /api/po/:id/status.
func (app *App) updateOrderStatusHandler(c *gin.Context) {
	po, ok := app.loadOrder(c)
	if !ok {
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request payload: %v", err)})
		return
	}
	if !validStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	// A posted order stays posted.
	if po.Status == StatusPosted && req.Status != StatusPosted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change status of a posted order"})
		return
	}

	oldStatus := po.Status
	po.Status = req.Status
	if err := app.Database.Save(po).Error; err != nil {
		log.Errorf("Failed to update order %d status: %v", po.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	log.Infof("Order %d status changed %s -> %s", po.ID, oldStatus, po.Status)
	c.JSON(http.StatusOK, gin.H{"success": true, "status": po.Status})
}

// updateOrderMemoHandler handles PUT /api/po/:id/memo.
func (app *App) updateOrderMemoHandler(c *gin.Context) {
	po, ok := app.loadOrder(c)
	if !ok {
		return
	}

	var req memoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request payload: %v", err)})
		return
	}

	po.Memo = req.Memo
	if err := app.Database.Save(po).Error; err != nil {
		log.Errorf("Failed to update order %d memo: %v", po.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update memo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "memo": po.Memo})
}

// addShippingHandler handles POST /api/po/:id/shipping. An existing
// schedule is updated field by field; setting a booking number moves an
// arranging order to arranged.
func (app *App) addShippingHandler(c *gin.Context) {
	po, ok := app.loadOrder(c)
	if !ok {
		return
	}

	var req shippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request payload: %v", err)})
		return
	}

	var schedule *ShippingSchedule
	if len(po.Schedules) > 0 {
		schedule = &po.Schedules[0]
		applyIfSet(&schedule.ShippingCompany, req.ShippingCompany)
		applyIfSet(&schedule.TransitPoint, req.TransitPoint)
		applyIfSet(&schedule.CutOffDate, req.CutOffDate)
		applyIfSet(&schedule.ETD, req.ETD)
		applyIfSet(&schedule.ETA, req.ETA)
		applyIfSet(&schedule.BookingNumber, req.BookingNumber)
		applyIfSet(&schedule.VesselName, req.VesselName)
		applyIfSet(&schedule.VoyageNumber, req.VoyageNumber)
		applyIfSet(&schedule.ContainerSize, req.ContainerSize)
	} else {
		schedule = &ShippingSchedule{
			POID:            po.ID,
			ShippingCompany: req.ShippingCompany,
			TransitPoint:    req.TransitPoint,
			CutOffDate:      req.CutOffDate,
			ETD:             req.ETD,
			ETA:             req.ETA,
			BookingNumber:   req.BookingNumber,
			VesselName:      req.VesselName,
			VoyageNumber:    req.VoyageNumber,
			ContainerSize:   req.ContainerSize,
		}
	}

	if err := app.Database.Save(schedule).Error; err != nil {
		log.Errorf("Failed to save shipping schedule for order %d: %v", po.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save shipping schedule"})
		return
	}

	if schedule.BookingNumber != "" && po.Status == StatusArranging {
		po.Status = StatusArranged
		if err := app.Database.Save(po).Error; err != nil {
			log.Errorf("Failed to advance order %d status: %v", po.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}
	}

	log.Infof("Shipping schedule saved for order %d", po.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "shippingId": schedule.ID})
}

func applyIfSet(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// loadOrder parses the :id parameter and loads the purchase order,
// responding with an error itself when either step fails.
func (app *App) loadOrder(c *gin.Context) (*PurchaseOrder, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase order ID"})
		return nil, false
	}

	po, err := GetPurchaseOrder(app.Database, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		} else {
			log.Errorf("Failed to load purchase order %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load purchase order"})
		}
		return nil, false
	}
	return po, true
}

// getJobStatusHandler handles GET /api/jobs/:job_id.
func (app *App) getJobStatusHandler(c *gin.Context) {
	job, exists := jobStore.getJob(c.Param("job_id"))
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// getAllJobsHandler handles GET /api/jobs.
func (app *App) getAllJobsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, jobStore.GetAllJobs())
}

// healthHandler handles GET /api/health.
func (app *App) healthHandler(c *gin.Context) {
	dbOK := true
	if sqlDB, err := app.Database.DB(); err != nil || sqlDB.Ping() != nil {
		dbOK = false
	}

	status := "healthy"
	code := http.StatusOK
	if !dbOK {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"system_status": gin.H{
			"database":   dbOK,
			"upload_dir": dirExists(app.uploadDir),
		},
	})
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
