package main

import "po-scan/extractor"

// loginRequest is the payload for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// registerRequest is the payload for POST /api/auth/register.
type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// registerOrderRequest is the payload for POST /api/po/register. The order
// fields use the same JSON shape the extractor emits, so a client can feed
// an extraction result straight back in.
type registerOrderRequest struct {
	Customer     string               `json:"customer" binding:"required"`
	PONumber     string               `json:"poNumber" binding:"required"`
	Currency     string               `json:"currency"`
	Products     []extractor.LineItem `json:"products" binding:"required"`
	TotalAmount  string               `json:"totalAmount"`
	PaymentTerms string               `json:"paymentTerms"`
	Terms        string               `json:"terms"`
	Destination  string               `json:"destination"`
}

// statusUpdateRequest is the payload for PATCH /api/po/:id/status.
type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// memoUpdateRequest is the payload for PUT /api/po/:id/memo.
type memoUpdateRequest struct {
	Memo string `json:"memo"`
}

// shippingRequest is the payload for POST /api/po/:id/shipping.
type shippingRequest struct {
	ShippingCompany string `json:"shipping_company"`
	TransitPoint    string `json:"transit_point"`
	CutOffDate      string `json:"cut_off_date"`
	ETD             string `json:"etd"`
	ETA             string `json:"eta"`
	BookingNumber   string `json:"booking_number"`
	VesselName      string `json:"vessel_name"`
	VoyageNumber    string `json:"voyage_number"`
	ContainerSize   string `json:"container_size"`
}

// extractResponse is the body of GET /api/ocr/extract/:id.
type extractResponse struct {
	OCRID   uint                        `json:"ocrId"`
	Data    extractor.Order             `json:"data"`
	Quality extractor.QualityAssessment `json:"quality"`
	Stats   extractor.Stats             `json:"stats"`
}

// orderSummary is one row of GET /api/po/list.
type orderSummary struct {
	ID            uint    `json:"id"`
	Status        string  `json:"status"`
	PONumber      string  `json:"poNumber"`
	Customer      string  `json:"customer"`
	ProductName   string  `json:"productName"`
	Quantity      float64 `json:"quantity"`
	Currency      string  `json:"currency"`
	UnitPrice     string  `json:"unitPrice"`
	Amount        string  `json:"amount"`
	PaymentTerms  string  `json:"paymentTerms"`
	Terms         string  `json:"terms"`
	Destination   string  `json:"destination"`
	TransitPoint  string  `json:"transitPoint,omitempty"`
	CutOffDate    string  `json:"cutOffDate,omitempty"`
	ETD           string  `json:"etd,omitempty"`
	ETA           string  `json:"eta,omitempty"`
	BookingNumber string  `json:"bookingNumber,omitempty"`
	VesselName    string  `json:"vesselName,omitempty"`
	VoyageNumber  string  `json:"voyageNumber,omitempty"`
	ContainerInfo string  `json:"containerInfo,omitempty"`
	Memo          string  `json:"memo,omitempty"`
}
