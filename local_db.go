package main

import (
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Purchase order lifecycle statuses. A posted order is immutable.
const (
	StatusUnarranged = "unarranged"
	StatusArranging  = "arranging"
	StatusArranged   = "arranged"
	StatusPosted     = "posted"
)

// User represents the schema of the users table.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PurchaseOrder represents the schema of the purchase_orders table.
type PurchaseOrder struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"index"`
	CustomerName  string `gorm:"size:100;not null"`
	PONumber      string `gorm:"size:100;not null;index"`
	Currency      string `gorm:"size:10"`
	TotalAmount   string `gorm:"size:50"`
	PaymentTerms  string `gorm:"size:100"`
	ShippingTerms string `gorm:"size:100"`
	Destination   string `gorm:"size:100"`
	Status        string `gorm:"size:50;default:unarranged"`
	Memo          string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items     []OrderItem        `gorm:"foreignKey:POID;constraint:OnDelete:CASCADE"`
	Schedules []ShippingSchedule `gorm:"foreignKey:POID;constraint:OnDelete:CASCADE"`
}

// OrderItem represents one extracted line item of a purchase order.
type OrderItem struct {
	ID          uint   `gorm:"primaryKey"`
	POID        uint   `gorm:"index"`
	ProductName string `gorm:"size:200;not null"`
	Quantity    string `gorm:"size:50"`
	UnitPrice   string `gorm:"size:50"`
	Subtotal    string `gorm:"size:50"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ShippingSchedule holds the booking details attached to a purchase order.
type ShippingSchedule struct {
	ID              uint   `gorm:"primaryKey"`
	POID            uint   `gorm:"index"`
	ShippingCompany string `gorm:"size:100"`
	TransitPoint    string `gorm:"size:100"`
	CutOffDate      string `gorm:"size:50"`
	ETD             string `gorm:"size:50"`
	ETA             string `gorm:"size:50"`
	BookingNumber   string `gorm:"size:100"`
	VesselName      string `gorm:"size:100"`
	VoyageNumber    string `gorm:"size:50"`
	ContainerSize   string `gorm:"size:100"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OCRRecord tracks one uploaded document through recognition. RawText is the
// concatenated page text; ErrorMessage is set when Status is "failed".
type OCRRecord struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"index"`
	POID         *uint  `gorm:"index"`
	FilePath     string `gorm:"size:255;not null"`
	OriginalName string `gorm:"size:255"`
	RawText      string `gorm:"type:text"`
	Status       string `gorm:"size:50;default:pending"`
	ErrorMessage string `gorm:"size:1024"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InitializeDB initializes the SQLite database and migrates the schema
func InitializeDB(dbDir string) *gorm.DB {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create db directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "po-scan.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(&User{}, &PurchaseOrder{}, &OrderItem{}, &ShippingSchedule{}, &OCRRecord{})
	if err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	return db
}

// GetUserByEmail retrieves a user by email address.
func GetUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	result := db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// CreateUser inserts a new user record.
func CreateUser(db *gorm.DB, user *User) error {
	return db.Create(user).Error
}

// CreateOCRRecord inserts a new OCR record.
func CreateOCRRecord(db *gorm.DB, record *OCRRecord) error {
	return db.Create(record).Error
}

// GetOCRRecord retrieves an OCR record by ID.
func GetOCRRecord(db *gorm.DB, id uint) (*OCRRecord, error) {
	var record OCRRecord
	result := db.First(&record, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &record, nil
}

// UpdateOCRRecord stores the outcome of a recognition job.
func UpdateOCRRecord(db *gorm.DB, id uint, status, rawText, errorMessage string) error {
	return db.Model(&OCRRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        status,
		"raw_text":      rawText,
		"error_message": errorMessage,
	}).Error
}

// CreatePurchaseOrder inserts a purchase order together with its line items.
func CreatePurchaseOrder(db *gorm.DB, po *PurchaseOrder) error {
	return db.Create(po).Error
}

// GetPurchaseOrder retrieves a purchase order with its items and schedules.
func GetPurchaseOrder(db *gorm.DB, id uint) (*PurchaseOrder, error) {
	var po PurchaseOrder
	result := db.Preload("Items").Preload("Schedules").First(&po, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &po, nil
}

// ListPurchaseOrders retrieves all purchase orders, optionally filtered by
// status, newest first.
func ListPurchaseOrders(db *gorm.DB, status string) ([]PurchaseOrder, error) {
	var orders []PurchaseOrder
	query := db.Preload("Items").Preload("Schedules").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	result := query.Find(&orders)
	return orders, result.Error
}
