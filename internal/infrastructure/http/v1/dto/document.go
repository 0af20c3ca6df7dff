package dto

import (
	"time"

	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/id"
	"github.com/ravikhokle/oddostock/internal/core/types"
	"github.com/ravikhokle/oddostock/internal/domain/documents/adjustment"
	"github.com/ravikhokle/oddostock/internal/domain/documents/delivery"
	"github.com/ravikhokle/oddostock/internal/domain/documents/receipt"
	"github.com/ravikhokle/oddostock/internal/domain/documents/transfer"
)

// PartnerRequest is a supplier or customer block.
type PartnerRequest struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

func (p PartnerRequest) toEntity() entity.Partner {
	return entity.Partner{Name: p.Name, Contact: p.Contact, Email: p.Email, Address: p.Address}
}

// --- Receipt ---

// ReceiptLineRequest is one receipt line.
type ReceiptLineRequest struct {
	ProductID        string         `json:"productId" binding:"required,uuid"`
	QuantityOrdered  types.Quantity `json:"quantityOrdered"`
	QuantityReceived types.Quantity `json:"quantityReceived"`
	UnitPrice        types.Money    `json:"unitPrice"`
}

// CreateReceiptRequest is the request body for creating a receipt.
type CreateReceiptRequest struct {
	WarehouseID   string               `json:"warehouseId" binding:"required,uuid"`
	LocationID    string               `json:"locationId" binding:"required,uuid"`
	Supplier      PartnerRequest       `json:"supplier" binding:"required"`
	ScheduledDate *time.Time           `json:"scheduledDate"`
	Notes         string               `json:"notes"`
	Lines         []ReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateReceiptRequest) ToEntity(createdBy id.ID) *receipt.Receipt {
	doc := receipt.NewReceipt(createdBy, ParseID(r.WarehouseID), ParseID(r.LocationID), r.Supplier.toEntity())
	doc.ScheduledDate = r.ScheduledDate
	doc.Notes = r.Notes
	for _, l := range r.Lines {
		doc.AddLine(ParseID(l.ProductID), l.QuantityOrdered, l.QuantityReceived, l.UnitPrice)
	}
	return doc
}

// UpdateReceiptRequest replaces the editable parts of a receipt.
type UpdateReceiptRequest struct {
	VersionRequest
	CreateReceiptRequest
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateReceiptRequest) ApplyTo(doc *receipt.Receipt) {
	fresh := r.ToEntity(doc.CreatedBy)
	doc.WarehouseID = fresh.WarehouseID
	doc.LocationID = fresh.LocationID
	doc.Supplier = fresh.Supplier
	doc.ScheduledDate = fresh.ScheduledDate
	doc.Notes = fresh.Notes
	doc.Lines = fresh.Lines
}

// ReceiptResponse is the response body for a receipt.
type ReceiptResponse struct {
	DocumentResponse
	WarehouseID   string         `json:"warehouseId"`
	LocationID    string         `json:"locationId"`
	Supplier      entity.Partner `json:"supplier"`
	ScheduledDate *time.Time     `json:"scheduledDate,omitempty"`
	Lines         []receipt.Line `json:"lines"`
	TotalAmount   types.Money    `json:"totalAmount"`
}

// FromReceipt creates response DTO from domain entity.
func FromReceipt(doc *receipt.Receipt) *ReceiptResponse {
	return &ReceiptResponse{
		DocumentResponse: FromDocument(doc.Document),
		WarehouseID:      doc.WarehouseID.String(),
		LocationID:       doc.LocationID.String(),
		Supplier:         doc.Supplier,
		ScheduledDate:    doc.ScheduledDate,
		Lines:            doc.Lines,
		TotalAmount:      doc.TotalAmount(),
	}
}

// --- Delivery ---

// DeliveryLineRequest is one delivery line.
// QuantityDelivered may be set directly when picking and packing are not tracked.
type DeliveryLineRequest struct {
	ProductID         string         `json:"productId" binding:"required,uuid"`
	QuantityOrdered   types.Quantity `json:"quantityOrdered"`
	QuantityDelivered types.Quantity `json:"quantityDelivered"`
	UnitPrice         types.Money    `json:"unitPrice"`
}

// CreateDeliveryRequest is the request body for creating a delivery.
type CreateDeliveryRequest struct {
	WarehouseID   string                `json:"warehouseId" binding:"required,uuid"`
	LocationID    string                `json:"locationId" binding:"required,uuid"`
	Customer      PartnerRequest        `json:"customer" binding:"required"`
	ScheduledDate *time.Time            `json:"scheduledDate"`
	Notes         string                `json:"notes"`
	Lines         []DeliveryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateDeliveryRequest) ToEntity(createdBy id.ID) *delivery.Delivery {
	doc := delivery.NewDelivery(createdBy, ParseID(r.WarehouseID), ParseID(r.LocationID), r.Customer.toEntity())
	doc.ScheduledDate = r.ScheduledDate
	doc.Notes = r.Notes
	for i, l := range r.Lines {
		doc.AddLine(ParseID(l.ProductID), l.QuantityOrdered, l.UnitPrice)
		doc.Lines[i].QuantityDelivered = l.QuantityDelivered
	}
	return doc
}

// UpdateDeliveryRequest replaces the editable parts of a draft delivery.
type UpdateDeliveryRequest struct {
	VersionRequest
	CreateDeliveryRequest
}

// ApplyTo applies update DTO to existing entity. Picked and packed quantities are reset.
func (r *UpdateDeliveryRequest) ApplyTo(doc *delivery.Delivery) {
	fresh := r.ToEntity(doc.CreatedBy)
	doc.WarehouseID = fresh.WarehouseID
	doc.LocationID = fresh.LocationID
	doc.Customer = fresh.Customer
	doc.ScheduledDate = fresh.ScheduledDate
	doc.Notes = fresh.Notes
	doc.Lines = fresh.Lines
}

// ProgressRequest sets picked or packed quantities.
type ProgressRequest struct {
	Items []delivery.Progress `json:"items" binding:"required,min=1"`
}

// DeliveryResponse is the response body for a delivery.
type DeliveryResponse struct {
	DocumentResponse
	WarehouseID   string          `json:"warehouseId"`
	LocationID    string          `json:"locationId"`
	Customer      entity.Partner  `json:"customer"`
	ScheduledDate *time.Time      `json:"scheduledDate,omitempty"`
	Lines         []delivery.Line `json:"lines"`
	TotalAmount   types.Money     `json:"totalAmount"`
}

// FromDelivery creates response DTO from domain entity.
func FromDelivery(doc *delivery.Delivery) *DeliveryResponse {
	return &DeliveryResponse{
		DocumentResponse: FromDocument(doc.Document),
		WarehouseID:      doc.WarehouseID.String(),
		LocationID:       doc.LocationID.String(),
		Customer:         doc.Customer,
		ScheduledDate:    doc.ScheduledDate,
		Lines:            doc.Lines,
		TotalAmount:      doc.TotalAmount(),
	}
}

// --- Transfer ---

// TransferLineRequest is one transfer line.
type TransferLineRequest struct {
	ProductID           string         `json:"productId" binding:"required,uuid"`
	Quantity            types.Quantity `json:"quantity"`
	QuantityTransferred types.Quantity `json:"quantityTransferred"`
}

// CreateTransferRequest is the request body for creating a transfer.
type CreateTransferRequest struct {
	SourceWarehouseID      string                `json:"sourceWarehouseId" binding:"required,uuid"`
	SourceLocationID       string                `json:"sourceLocationId" binding:"required,uuid"`
	DestinationWarehouseID string                `json:"destinationWarehouseId" binding:"required,uuid"`
	DestinationLocationID  string                `json:"destinationLocationId" binding:"required,uuid"`
	ScheduledDate          *time.Time            `json:"scheduledDate"`
	Notes                  string                `json:"notes"`
	Lines                  []TransferLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateTransferRequest) ToEntity(createdBy id.ID) *transfer.Transfer {
	doc := transfer.NewTransfer(createdBy,
		ParseID(r.SourceWarehouseID), ParseID(r.SourceLocationID),
		ParseID(r.DestinationWarehouseID), ParseID(r.DestinationLocationID),
	)
	doc.ScheduledDate = r.ScheduledDate
	doc.Notes = r.Notes
	for i, l := range r.Lines {
		doc.AddLine(ParseID(l.ProductID), l.Quantity)
		doc.Lines[i].QuantityTransferred = l.QuantityTransferred
	}
	return doc
}

// UpdateTransferRequest replaces the editable parts of a transfer.
type UpdateTransferRequest struct {
	VersionRequest
	CreateTransferRequest
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateTransferRequest) ApplyTo(doc *transfer.Transfer) {
	fresh := r.ToEntity(doc.CreatedBy)
	doc.SourceWarehouseID = fresh.SourceWarehouseID
	doc.SourceLocationID = fresh.SourceLocationID
	doc.DestinationWarehouseID = fresh.DestinationWarehouseID
	doc.DestinationLocationID = fresh.DestinationLocationID
	doc.ScheduledDate = fresh.ScheduledDate
	doc.Notes = fresh.Notes
	doc.Lines = fresh.Lines
}

// TransferResponse is the response body for a transfer.
type TransferResponse struct {
	DocumentResponse
	SourceWarehouseID       string          `json:"sourceWarehouseId"`
	SourceLocationID        string          `json:"sourceLocationId"`
	SourceLocationName      string          `json:"sourceLocationName,omitempty"`
	DestinationWarehouseID  string          `json:"destinationWarehouseId"`
	DestinationLocationID   string          `json:"destinationLocationId"`
	DestinationLocationName string          `json:"destinationLocationName,omitempty"`
	ScheduledDate           *time.Time      `json:"scheduledDate,omitempty"`
	Lines                   []transfer.Line `json:"lines"`
}

// FromTransfer creates response DTO from domain entity.
func FromTransfer(doc *transfer.Transfer) *TransferResponse {
	return &TransferResponse{
		DocumentResponse:        FromDocument(doc.Document),
		SourceWarehouseID:       doc.SourceWarehouseID.String(),
		SourceLocationID:        doc.SourceLocationID.String(),
		SourceLocationName:      doc.SourceLocationName,
		DestinationWarehouseID:  doc.DestinationWarehouseID.String(),
		DestinationLocationID:   doc.DestinationLocationID.String(),
		DestinationLocationName: doc.DestinationLocationName,
		ScheduledDate:           doc.ScheduledDate,
		Lines:                   doc.Lines,
	}
}

// --- Adjustment ---

// AdjustmentLineRequest is one counted product.
type AdjustmentLineRequest struct {
	ProductID        string            `json:"productId" binding:"required,uuid"`
	RecordedQuantity types.Quantity    `json:"recordedQuantity"`
	CountedQuantity  types.Quantity    `json:"countedQuantity"`
	Reason           adjustment.Reason `json:"reason" binding:"required"`
	Notes            string            `json:"notes"`
}

// CreateAdjustmentRequest is the request body for creating an adjustment.
type CreateAdjustmentRequest struct {
	WarehouseID    string                  `json:"warehouseId" binding:"required,uuid"`
	LocationID     string                  `json:"locationId" binding:"required,uuid"`
	AdjustmentDate *time.Time              `json:"adjustmentDate"`
	Notes          string                  `json:"notes"`
	Lines          []AdjustmentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateAdjustmentRequest) ToEntity(createdBy id.ID) *adjustment.Adjustment {
	doc := adjustment.NewAdjustment(createdBy, ParseID(r.WarehouseID), ParseID(r.LocationID))
	if r.AdjustmentDate != nil {
		doc.AdjustmentDate = r.AdjustmentDate.UTC()
	}
	doc.Notes = r.Notes
	for _, l := range r.Lines {
		doc.AddLine(ParseID(l.ProductID), l.RecordedQuantity, l.CountedQuantity, l.Reason, l.Notes)
	}
	return doc
}

// UpdateAdjustmentRequest replaces the editable parts of an adjustment.
type UpdateAdjustmentRequest struct {
	VersionRequest
	CreateAdjustmentRequest
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateAdjustmentRequest) ApplyTo(doc *adjustment.Adjustment) {
	fresh := r.ToEntity(doc.CreatedBy)
	doc.WarehouseID = fresh.WarehouseID
	doc.LocationID = fresh.LocationID
	if r.AdjustmentDate != nil {
		doc.AdjustmentDate = fresh.AdjustmentDate
	}
	doc.Notes = fresh.Notes
	doc.Lines = fresh.Lines
}

// AdjustmentResponse is the response body for an adjustment.
type AdjustmentResponse struct {
	DocumentResponse
	WarehouseID    string            `json:"warehouseId"`
	LocationID     string            `json:"locationId"`
	AdjustmentDate time.Time         `json:"adjustmentDate"`
	Lines          []adjustment.Line `json:"lines"`
}

// FromAdjustment creates response DTO from domain entity.
func FromAdjustment(doc *adjustment.Adjustment) *AdjustmentResponse {
	return &AdjustmentResponse{
		DocumentResponse: FromDocument(doc.Document),
		WarehouseID:      doc.WarehouseID.String(),
		LocationID:       doc.LocationID.String(),
		AdjustmentDate:   doc.AdjustmentDate,
		Lines:            doc.Lines,
	}
}
